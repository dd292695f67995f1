package main

import (
	"crypto/subtle"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"dscheirer.com/shiftclock/shiftdisplay"
)

const dPrintDefault = 2 * time.Second

type configResponse struct {
	Response string    `json:"response"`
	Error    string    `json:"error,omitempty"`
	Mode     string    `json:"mode,omitempty"`
	Display  string    `json:"display,omitempty"`
	Codes    []int     `json:"codes,omitempty"`
	Sections []int     `json:"sections,omitempty"`
	Updated  time.Time `json:"updated"`
}

type configSvcMsg struct {
	secret string
}

type apiHandler struct {
	rt    runtimeConfig
	user  string
	realm string

	mu     sync.Mutex
	secret string
}

func newHandler(rt runtimeConfig) *apiHandler {
	secret := rt.settings.GetString(sSecret)
	if secret == "" {
		secret = uuid.NewString()
		rt.logger.Printf("Generated API secret %s", secret)
	}
	return &apiHandler{
		rt:     rt,
		secret: secret,
		user:   "shiftclock",
		realm:  "shiftclock",
	}
}

func (m *apiHandler) getSecret() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.secret
}

func (m *apiHandler) setSecret(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = s
}

// BasicAuth - provide a middleware to authenticate users
func (m *apiHandler) BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(m.user)) != 1 || subtle.ConstantTimeCompare([]byte(pass), []byte(m.getSecret())) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+m.realm+`"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorised.\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *apiHandler) getStatus() configResponse {
	snap := m.rt.status.get()
	codes := make([]int, len(snap.codes))
	for i, c := range snap.codes {
		codes[i] = int(c)
	}
	return configResponse{
		Response: "OK",
		Mode:     snap.mode,
		Display:  displayText(snap.codes),
		Codes:    codes,
		Sections: snap.sections,
		Updated:  snap.updated,
	}
}

func writeAnswer(w http.ResponseWriter, code int, cr configResponse) {
	output, _ := json.Marshal(cr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(output)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeAnswer(w, code, configResponse{Response: "BAD", Error: err.Error()})
}

// post hands an effect to runEffects without waiting on a busy loop.
func (m *apiHandler) post(w http.ResponseWriter, e displayEffect) {
	select {
	case m.rt.comms.effects <- e:
		writeAnswer(w, http.StatusOK, configResponse{Response: "OK"})
	default:
		writeError(w, http.StatusServiceUnavailable, errors.New("display busy"))
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	data, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, 4096))
	return data, errors.Wrap(err, "read body")
}

func hasKey(data []byte, key string) bool {
	_, _, _, err := jsonparser.Get(data, key)
	return err == nil
}

func parseAlign(data []byte) (shiftdisplay.Alignment, error) {
	if !hasKey(data, "align") {
		return shiftdisplay.AlignDefault, nil
	}
	s, err := jsonparser.GetString(data, "align")
	if err != nil {
		return 0, errors.Wrap(err, "align")
	}
	switch s {
	case "", "default":
		return shiftdisplay.AlignDefault, nil
	case "left":
		return shiftdisplay.AlignLeft, nil
	case "right":
		return shiftdisplay.AlignRight, nil
	case "center":
		return shiftdisplay.AlignCenter, nil
	}
	return 0, errors.Errorf("bad align %q", s)
}

// parseValue reads {"int": 42}, {"real": 3.14, "places": 2} or
// {"text": "hi"} plus optional "align" and "zeros".
func parseValue(data []byte) (displayValue, error) {
	var v displayValue
	var err error

	switch {
	case hasKey(data, "text"):
		v.kind = valueText
		v.s, err = jsonparser.GetString(data, "text")
	case hasKey(data, "real"):
		v.kind = valueReal
		v.places = 1
		v.f, err = jsonparser.GetFloat(data, "real")
		if err == nil && hasKey(data, "places") {
			var p int64
			p, err = jsonparser.GetInt(data, "places")
			v.places = int(p)
		}
	case hasKey(data, "int"):
		v.kind = valueInt
		var i int64
		i, err = jsonparser.GetInt(data, "int")
		v.i = int(i)
	default:
		return v, errors.New("no text, real or int value")
	}
	if err != nil {
		return v, errors.Wrap(err, "bad value")
	}

	if v.align, err = parseAlign(data); err != nil {
		return v, err
	}
	if hasKey(data, "zeros") {
		if v.zeros, err = jsonparser.GetBoolean(data, "zeros"); err != nil {
			return v, errors.Wrap(err, "zeros")
		}
	}
	return v, nil
}

func (m *apiHandler) apiStatus(w http.ResponseWriter, r *http.Request) {
	writeAnswer(w, http.StatusOK, m.getStatus())
}

func (m *apiHandler) apiSet(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	v, err := parseValue(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m.post(w, valueEffect(v))
}

// apiPrint takes {"text": "...", "duration": "2s"}.
func (m *apiHandler) apiPrint(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	text, err := jsonparser.GetString(data, "text")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "text"))
		return
	}
	d := dPrintDefault
	if hasKey(data, "duration") {
		s, _ := jsonparser.GetString(data, "duration")
		if d, err = time.ParseDuration(s); err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, errors.Errorf("bad duration %q", s))
			return
		}
	}
	m.post(w, printEffect(text, d))
}

func (m *apiHandler) apiClear(w http.ResponseWriter, r *http.Request) {
	m.post(w, clearEffect())
}

// apiMode takes {"mode": "clock"} or {"mode": "counter"}.
func (m *apiHandler) apiMode(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, _ := jsonparser.GetString(data, "mode")
	switch mode {
	case "clock":
		m.post(w, clockEffect())
	case "counter":
		m.post(w, counterEffect())
	default:
		writeError(w, http.StatusBadRequest, errors.Errorf("bad mode %q", mode))
	}
}

// apiSecret takes {"secret": "..."}; the new secret applies to the
// requests after this one.
func (m *apiHandler) apiSecret(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	secret, err := jsonparser.GetString(data, "secret")
	if err != nil || secret == "" {
		writeError(w, http.StatusBadRequest, errors.New("no secret"))
		return
	}
	select {
	case m.rt.comms.configSvc <- configSvcMsg{secret: secret}:
		writeAnswer(w, http.StatusOK, configResponse{Response: "OK"})
	default:
		writeError(w, http.StatusServiceUnavailable, errors.New("secret change pending"))
	}
}

func runConfigService(rt runtimeConfig) {
	rt.logger = &ThreadLogger{name: "ConfigService"}
	handler := newHandler(rt)

	rt.configService.launch(handler, rt.settings.GetString(sHTTPAddr))

	rt.logger.Println("starting config service comms loop")
	for {
		select {
		case <-rt.comms.quit:
			rt.logger.Println("quit from config service")
			rt.configService.stop()
			return
		case msg := <-rt.comms.configSvc:
			rt.logger.Println("Got a new secret")
			handler.setSecret(msg.secret)
		}
	}
}
