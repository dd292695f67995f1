package main

import (
	"io/ioutil"
	"net/http"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

const dFetchTimeout = 10 * time.Second

type ntpCheck interface {
	getIPDateTime(rt runtimeConfig) (time.Time, error)
}

// ntpChecker asks a worldtimeapi style service for the time,
// e.g. http://worldtimeapi.org/api/ip
type ntpChecker struct {
	client *http.Client
}

// OOBFetch helper for grabbing http files
func OOBFetch(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "fetch")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch %s: %s", url, resp.Status)
	}
	body, err := ioutil.ReadAll(resp.Body)
	return body, errors.Wrap(err, "fetch")
}

func (ntp *ntpChecker) getIPDateTime(rt runtimeConfig) (time.Time, error) {
	url := rt.settings.GetString(sIPTime)
	rt.logger.Printf("Fetching time from %s", url)

	if ntp.client == nil {
		ntp.client = &http.Client{Timeout: dFetchTimeout}
	}
	body, err := OOBFetch(ntp.client, url)
	if err != nil {
		return time.Time{}, err
	}

	dt, err := jsonparser.GetString(body, "datetime")
	if err != nil {
		return time.Time{}, errors.Wrap(err, "datetime")
	}
	t, err := time.Parse(time.RFC3339Nano, dt)
	return t, errors.Wrap(err, "datetime")
}
