package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// setting keys
const (
	sTransport   = "transport" // rpio, spi, console or log
	sDataPin     = "dataPin"
	sClockPin    = "clockPin"
	sLatchPin    = "latchPin"
	sEnablePin   = "enablePin"
	sSPIBus      = "spiBus"
	sSPIHz       = "spiHz"
	sCommonAnode = "commonAnode"
	sStaticDrive = "staticDrive"
	sSections    = "sections"
	sIndexes     = "indexes"
	sSwapped     = "swapped"
	sForceClear  = "forceClear"
	sMSBFirst    = "msbFirst"
	sPOV         = "pov"
	sRefresh     = "refresh"
	sHTTPAddr    = "httpAddr"
	sSecret      = "secret"
	sLogFile     = "logFile"
	sDebug       = "debugDump"
	sBlink       = "blinkColon"
	sModeBtn     = "modeButton" // gpio pin, -1 for none
	sDotBtn      = "dotButton"
	sBtnPullup   = "buttonPullup"
	sIPTime      = "ipTimeURL" // empty: no drift check
)

type configSettings interface {
	GetString(key string) string
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	GetInt(key string) int
	GetIntList(key string) []int
	Dump()
}

// keep settings generic, type-convert on the fly
type settings struct {
	settings map[string]interface{}
}

func defaultSettings() *settings {
	s := make(map[string]interface{})

	// setting the type here makes the conversion "automatic" later
	s[sTransport] = "console"
	if runtime.GOARCH == "arm" {
		s[sTransport] = "rpio"
	}
	s[sDataPin] = 17
	s[sClockPin] = 27
	s[sLatchPin] = 22
	s[sEnablePin] = -1
	s[sSPIBus] = ""
	s[sSPIHz] = 0
	s[sCommonAnode] = false
	s[sStaticDrive] = false
	s[sSections] = []int{4, 4}
	s[sIndexes] = []int{}
	s[sSwapped] = false
	s[sForceClear] = false
	s[sMSBFirst] = false
	s[sPOV] = time.Millisecond
	s[sRefresh] = 100 * time.Millisecond
	s[sHTTPAddr] = ":8080"
	s[sSecret] = ""
	s[sLogFile] = ""
	s[sDebug] = false
	s[sBlink] = true
	s[sModeBtn] = -1
	s[sDotBtn] = -1
	s[sBtnPullup] = true
	s[sIPTime] = ""

	return &settings{settings: s}
}

func parseBool(data []byte, k string) (bool, error) {
	v, err := jsonparser.GetBoolean(data, k)
	if err == nil {
		return v, nil
	}
	// try "true" and "false"
	str, _ := jsonparser.GetString(data, k)
	switch strings.ToLower(str) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, errors.Wrapf(err, "%s", k)
}

func parseInt(data []byte, k string) (int, error) {
	v, err := jsonparser.GetInt(data, k)
	if err != nil {
		// hex pins and codes are easier to read as strings
		str, err2 := jsonparser.GetString(data, k)
		if err2 != nil {
			return 0, errors.Wrapf(err, "%s", k)
		}
		v, err = strconv.ParseInt(str, 0, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "%s", k)
		}
	}
	return int(v), nil
}

func parseIntList(data []byte, k string) ([]int, error) {
	out := []int{}
	var perr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if perr != nil {
			return
		}
		var n int64
		switch dataType {
		case jsonparser.Number:
			n, perr = jsonparser.ParseInt(value)
		case jsonparser.String:
			n, perr = strconv.ParseInt(string(value), 0, 64)
		default:
			perr = fmt.Errorf("not a number: %s", value)
		}
		out = append(out, int(n))
	}, k)
	if err == nil {
		err = perr
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s", k)
	}
	return out, nil
}

func (s *settings) settingsFromJSON(data []byte) error {
	tmp := defaultSettings()
	for k, initVal := range tmp.settings {
		// ignore missing fields
		if _, _, _, err := jsonparser.Get(data, k); err != nil {
			log.Printf("Skipping key %s", k)
			continue
		}

		var err error
		switch initVal.(type) {
		case int:
			s.settings[k], err = parseInt(data, k)
		case bool:
			s.settings[k], err = parseBool(data, k)
		case []int:
			s.settings[k], err = parseIntList(data, k)
		case time.Duration:
			var dur string
			dur, err = jsonparser.GetString(data, k)
			if err == nil {
				var d time.Duration
				d, err = time.ParseDuration(dur)
				if err == nil {
					s.settings[k] = d
				}
			}
			err = errors.Wrapf(err, "%s", k)
		case string:
			s.settings[k], err = jsonparser.GetString(data, k)
			err = errors.Wrapf(err, "%s", k)
		default:
			err = fmt.Errorf("Bad type: %T", initVal)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// readSettings loads path over the defaults. An empty path is just the
// defaults.
func readSettings(path string) (*settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load conf file '%s'", path)
	}

	log.Printf("Reading configuration from '%s'", path)
	if err := s.settingsFromJSON(data); err != nil {
		return nil, errors.Wrapf(err, "bad conf file '%s'", path)
	}
	return s, nil
}

func (s *settings) GetString(key string) string {
	switch v := s.settings[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (s *settings) GetBool(key string) bool {
	switch v := s.settings[key].(type) {
	case bool:
		return v
	default:
		return false
	}
}

func (s *settings) GetDuration(key string) time.Duration {
	switch v := s.settings[key].(type) {
	case time.Duration:
		return v
	default:
		return -1
	}
}

func (s *settings) GetInt(key string) int {
	switch v := s.settings[key].(type) {
	case int:
		return v
	default:
		return 0
	}
}

func (s *settings) GetIntList(key string) []int {
	switch v := s.settings[key].(type) {
	case []int:
		return append([]int(nil), v...)
	default:
		return nil
	}
}

func (s *settings) Dump() {
	keys := make([]string, 0, len(s.settings))
	for k := range s.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := s.settings[k]
		if k == sSecret && v != "" {
			v = "****"
		}
		log.Printf("%s : %T: %v\n", k, v, v)
	}
}
