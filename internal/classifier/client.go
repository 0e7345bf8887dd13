package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dtrplay/internal/models"
	"dtrplay/internal/providers"
	"dtrplay/internal/structures"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
)

// ClassifierInterface is the opaque labeling backend.
type ClassifierInterface interface {
	Classify(ctx context.Context, req Request) (LabelResponse, error)
	Upload(ctx context.Context, filename string, content []byte) (*UploadResult, error)
}

// Request is one classification call. Labeled, when set, replaces
// Records in the logic3 body (the review re-submission).
type Request struct {
	Logic     Logic
	Records   []string
	Labeled   []models.LabeledRecord
	Schedules []models.Schedule
}

type logic12Body struct {
	RecordedTimes []string          `json:"recordedTimes"`
	Schedules     []models.Schedule `json:"schedules"`
}

type scheduleEnvelope struct {
	Schedules []models.Schedule `json:"schedules"`
}

type logic3Body struct {
	RecordedTimes any              `json:"recordedTimes"`
	Schedules     scheduleEnvelope `json:"schedules"`
}

func (r Request) body() ([]byte, error) {
	schedules := r.Schedules
	if schedules == nil {
		schedules = []models.Schedule{}
	}
	records := r.Records
	if records == nil {
		records = []string{}
	}
	switch r.Logic {
	case Logic1, Logic2:
		return json.Marshal(logic12Body{RecordedTimes: records, Schedules: schedules})
	case Logic3:
		var recorded any = records
		if r.Labeled != nil {
			recorded = r.Labeled
		}
		return json.Marshal(logic3Body{RecordedTimes: recorded, Schedules: scheduleEnvelope{Schedules: schedules}})
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownLogic, int(r.Logic))
	}
}

type Client struct {
	baseURL     string
	http        *http.Client
	maxBodySize int64
	cache       providers.CacheProviderInterface
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) ClassifierInterface {
	return &Client{
		baseURL:     strings.TrimRight(conf.Classifier.BaseURL, "/"),
		http:        &http.Client{Timeout: conf.Classifier.Timeout},
		maxBodySize: conf.Classifier.MaxBodySize,
		cache:       cache,
		logger:      logger,
		metrics:     metrics,
	}
}

func cacheKey(logic Logic, body []byte) string {
	return "classify:" + logic.String() + ":" + strconv.FormatUint(xxhash.Sum64(body), 16)
}

func (c *Client) Classify(ctx context.Context, req Request) (LabelResponse, error) {
	body, err := req.body()
	if err != nil {
		return nil, err
	}
	logic := req.Logic.String()
	key := cacheKey(req.Logic, body)

	if cached, ok := c.cache.Get(key); ok {
		if resp, err := decodeResponse(req.Logic, cached); err == nil {
			c.metrics.IncClassifierCalls(logic, "cached")
			c.logger.Debugf(providers.TypeClassifier, "%s served from cache", logic)
			return resp, nil
		}
	}

	start := time.Now()
	data, err := c.post(ctx, req.Logic.Endpoint(), "application/json", bytes.NewReader(body))
	c.metrics.ObserveClassifierDuration(logic, time.Since(start))
	if err != nil {
		c.metrics.IncClassifierCalls(logic, outcome(err))
		c.logger.Errorf(providers.TypeClassifier, "%s failed: %s", logic, err)
		return nil, err
	}

	resp, err := decodeResponse(req.Logic, data)
	if err != nil {
		var remote *Error
		if !errors.As(err, &remote) {
			err = remoteError(0, "", fmt.Sprintf("invalid response from %s: %v", req.Logic.Endpoint(), err))
		}
		c.metrics.IncClassifierCalls(logic, "error")
		c.logger.Warnf(providers.TypeClassifier, "%s rejected: %s", logic, err)
		return nil, err
	}

	c.cache.Set(key, data)
	c.metrics.IncClassifierCalls(logic, "success")
	c.logger.Infof(providers.TypeClassifier, "%s classified %d records", logic, len(req.Records)+len(req.Labeled))
	return resp, nil
}

func (c *Client) Upload(ctx context.Context, filename string, content []byte) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err = part.Write(content); err != nil {
		return nil, err
	}
	if err = mw.Close(); err != nil {
		return nil, err
	}

	data, err := c.post(ctx, "/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		c.metrics.IncClassifierCalls("upload", outcome(err))
		c.logger.Errorf(providers.TypeClassifier, "upload of %s failed: %s", filename, err)
		return nil, err
	}

	var resp uploadResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.metrics.IncClassifierCalls("upload", "error")
		return nil, remoteError(0, "", "Error uploading file.")
	}
	if resp.Status != statusSuccess {
		c.metrics.IncClassifierCalls("upload", "error")
		return nil, remoteError(0, resp.Message, "Error uploading file.")
	}
	result, err := decodeUploadContent(resp.Content)
	if err != nil {
		c.metrics.IncClassifierCalls("upload", "error")
		return nil, remoteError(0, "", "Error uploading file.")
	}
	result.UncheckLogics = resp.UncheckLogics
	c.metrics.IncClassifierCalls("upload", "success")
	return result, nil
}

// post returns the body of a 2xx response. A non-2xx response becomes
// an *Error carrying the backend's JSON message when it sent one.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, unavailable(path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, c.maxBodySize+1))
	if err != nil {
		return nil, unavailable(path, err)
	}
	if int64(len(data)) > c.maxBodySize {
		return nil, remoteError(res.StatusCode, "", fmt.Sprintf("response from %s exceeds %d bytes", path, c.maxBodySize))
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &failure)
		return nil, remoteError(res.StatusCode, failure.Message, "Server returned "+strconv.Itoa(res.StatusCode))
	}
	return data, nil
}

func outcome(err error) string {
	var remote *Error
	if errors.As(err, &remote) {
		return "error"
	}
	return "unavailable"
}
