package server

import (
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

// relayUserAgents are rotated per attempt so the upstream sees ordinary
// browser traffic.
var relayUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
}

const relayMaxAttempts = 3

// handleRelay handles GET /api/relay?url=... It is the first-party relay
// strategy: browser clients that cannot reach the upstream directly call
// this endpoint, which fetches the target with browser headers and bounded
// 429/401 retries. Responses are marked cacheable at the CDN layer so
// repeated quote requests never reach the upstream twice.
func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	target, ok := QueryParam(r, "url")
	if !ok {
		WriteError(w, http.StatusBadRequest, "Missing 'url' query parameter")
		return
	}
	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		WriteError(w, http.StatusBadRequest, "Invalid 'url' query parameter")
		return
	}

	w.Header().Set("Cache-Control", "s-maxage=3600, stale-while-revalidate=86400")

	client := &http.Client{Timeout: 20 * time.Second}
	lastStatus := http.StatusInternalServerError

	for attempt := 0; attempt < relayMaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid target URL: "+err.Error())
			return
		}
		setBrowserHeaders(req)

		resp, err := client.Do(req)
		if err != nil {
			s.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("Relay fetch failed")
			if attempt == relayMaxAttempts-1 {
				WriteError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if s.relaySleep(r.Context(), time.Second) != nil {
				return
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			defer resp.Body.Close()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			io.Copy(w, resp.Body)
			return
		}

		lastStatus = resp.StatusCode
		resp.Body.Close()

		// Rate limits and auth blocks get a backoff and another go; any
		// other status fails immediately.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusUnauthorized {
			s.logger.Info().Int("status", resp.StatusCode).Int("attempt", attempt+1).
				Msg("Relay hit upstream block, backing off")
			if s.relaySleep(r.Context(), time.Duration(attempt+1)*2*time.Second) != nil {
				return
			}
			continue
		}

		WriteError(w, resp.StatusCode, "Upstream error: "+resp.Status)
		return
	}

	WriteError(w, lastStatus, "Failed after retries")
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", relayUserAgents[rand.Intn(len(relayUserAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
	req.Header.Set("Cache-Control", "max-age=0")
}
