package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/toothbrush/wiki-publish/confluence"
	"go.uber.org/zap"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// Where --with-vcr keeps its recordings.
var vcrCassette = "fixtures/wiki-publish"

// credentials gathers whatever auth material is configured.  A session cookie wins over a token.
func credentials() (cookie, token string, err error) {
	if SessionCookieEnv != "" {
		cookie = os.Getenv(SessionCookieEnv)
	}

	if len(AuthTokenCmd) > 0 {
		tokenCmdOutput, err := exec.Command(AuthTokenCmd[0], AuthTokenCmd[1:]...).Output()
		if err != nil {
			return "", "", fmt.Errorf("wiki-publish: couldn't execute auth-token-cmd '%v': %w", AuthTokenCmd, err)
		}
		token = strings.Split(string(tokenCmdOutput), "\n")[0]
	}

	return cookie, token, nil
}

// newAPI builds the Confluence client from flags.  The returned stop func must be called once
// done; it flushes the VCR cassette when --with-vcr is on.
func newAPI() (*confluence.API, func() error, error) {
	cookie, token, err := credentials()
	if err != nil {
		return nil, nil, err
	}

	api, err := confluence.NewAPI(confluence.Config{
		BaseURL:        BaseURL,
		SessionCookie:  cookie,
		Username:       AuthUsername,
		Token:          token,
		RequestTimeout: RequestTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wiki-publish: couldn't instantiate Confluence API: %w", err)
	}

	stop := func() error { return nil }
	if WithVCR {
		opts := &recorder.Options{
			CassetteName:       vcrCassette,
			Mode:               recorder.ModeReplayWithNewEpisodes,
			SkipRequestLatency: true,
			RealTransport:      http.DefaultTransport,
		}
		r, err := recorder.NewWithOptions(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("wiki-publish: couldn't set up go-vcr recording: %w", err)
		}

		// Keep credentials out of the cassette.
		hook := func(i *cassette.Interaction) error {
			delete(i.Request.Headers, "Authorization")
			delete(i.Request.Headers, "Cookie")
			return nil
		}
		r.AddHook(hook, recorder.AfterCaptureHook)

		// Only reads are recorded and replayed.  The matcher compares method and URL, so a replayed
		// create would hand every later page the first page's location without creating it.
		r.AddPassthrough(func(req *http.Request) bool {
			return req.Method != http.MethodGet
		})
		r.SetReplayableInteractions(true)

		client := r.GetDefaultClient()
		client.Timeout = api.Timeout
		api.Client = client
		stop = r.Stop

		logger.Debug("Recording HTTP interactions", zap.String("cassette", opts.CassetteName))
	}

	return api, stop, nil
}

func sessionCookieSet() bool {
	return SessionCookieEnv != "" && os.Getenv(SessionCookieEnv) != ""
}
