package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/utils"
)

// ExtractService turns a submitted URL into raw knowledge text. YouTube
// links go through the transcript provider; everything else is scraped
// and stripped down to plain text.
type ExtractService interface {
	ExtractFromURL(ctx context.Context, rawURL string) (sourceType string, text string, err error)
}

type extractService struct {
	log               *logger.Logger
	httpClient        *http.Client
	transcriptBaseURL string
}

func NewExtractService(baseLog *logger.Logger) ExtractService {
	log := baseLog.With("service", "ExtractService")
	timeoutSec := utils.GetEnvAsInt("EXTRACT_TIMEOUT_SECONDS", 30, baseLog)
	return &extractService{
		log:               log,
		httpClient:        &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		transcriptBaseURL: utils.GetEnv("TRANSCRIPT_API_BASE_URL", "", baseLog),
	}
}

func (es *extractService) ExtractFromURL(ctx context.Context, rawURL string) (string, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", "", apperr.InvalidArgument("A valid http(s) URL is required.")
	}

	var sourceType, text string
	if isYoutubeURL(parsed) {
		sourceType = "youtube"
		text, err = es.fetchYoutubeTranscript(ctx, rawURL)
	} else {
		sourceType = "url"
		text, err = es.scrapeWebpage(ctx, rawURL)
	}
	if err != nil {
		return "", "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", apperr.InvalidArgument("Could not extract any text from the provided URL.")
	}
	return sourceType, text, nil
}

func isYoutubeURL(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return host == "youtube.com" || host == "m.youtube.com" || host == "youtu.be"
}

type transcriptResponse struct {
	Transcript string `json:"transcript"`
}

func (es *extractService) fetchYoutubeTranscript(ctx context.Context, videoURL string) (string, error) {
	if es.transcriptBaseURL == "" {
		return "", apperr.New(http.StatusBadGateway, "Transcript service is not configured.")
	}

	endpoint := strings.TrimRight(es.transcriptBaseURL, "/") + "/api/transcript?url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := es.httpClient.Do(req)
	if err != nil {
		es.log.Error("Transcript fetch failed", "url", videoURL, "error", err)
		return "", apperr.Wrap(http.StatusBadGateway, "Failed to fetch the video transcript.", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(http.StatusBadGateway, "Failed to fetch the video transcript.", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		es.log.Error("Transcript provider returned error", "url", videoURL, "status", resp.StatusCode)
		return "", apperr.New(http.StatusBadGateway, "Failed to fetch the video transcript.")
	}

	var tr transcriptResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", apperr.Wrap(http.StatusBadGateway, "Failed to fetch the video transcript.", err)
	}
	return tr.Transcript, nil
}

func (es *extractService) scrapeWebpage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "mindweave-bot/1.0")

	resp, err := es.httpClient.Do(req)
	if err != nil {
		es.log.Error("Webpage fetch failed", "url", pageURL, "error", err)
		return "", apperr.Wrap(http.StatusBadGateway, "Failed to fetch the webpage.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		es.log.Error("Webpage returned error", "url", pageURL, "status", resp.StatusCode)
		return "", apperr.New(http.StatusBadGateway, fmt.Sprintf("The webpage returned status %d.", resp.StatusCode))
	}

	// 10MB cap keeps a hostile page from ballooning memory.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", apperr.Wrap(http.StatusBadGateway, "Failed to fetch the webpage.", err)
	}
	return ExtractHTMLText(string(raw)), nil
}

var (
	htmlScriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlTagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
)

// ExtractHTMLText strips markup and collapses whitespace, leaving the
// page's visible text.
func ExtractHTMLText(s string) string {
	s = htmlScriptRe.ReplaceAllString(s, " ")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	return collapseWhitespace(s)
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
