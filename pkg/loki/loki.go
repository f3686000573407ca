package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Logger receives the pusher's own delivery failures; pushing them back
// through the hooked logger would loop.
type Logger interface {
	Error(msg string, args ...any)
}

type Config struct {

	// Url of the loki push endpoint, e.g. https://example.grafana.net/loki/api/v1/push
	Url string `validate:"required"`

	// BatchMaxSize is the maximum number of log lines sent in one request.
	BatchMaxSize int `validate:"gte=1"`

	// BatchMaxWait is the maximum time a batch may sit before being flushed.
	BatchMaxWait time.Duration `validate:"gte=1"`

	// Labels are attached to every pushed stream.
	Labels map[string]string

	// Username and Password enable basic auth when both are set.
	Username string
	Password string
}

func (cfg *Config) setDefaults() {
	if cfg.BatchMaxSize == 0 {
		cfg.BatchMaxSize = 1000
	}
	if cfg.BatchMaxWait == 0 {
		cfg.BatchMaxWait = 5 * time.Second
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
}

type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"msg"`
	Caller  string `json:"caller"`
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type Pusher struct {
	config    *Config
	ctx       context.Context
	cancel    context.CancelFunc
	client    *http.Client
	quit      chan struct{}
	entries   chan LogEntry
	waitGroup sync.WaitGroup
	batch     [][2]string
	logger    Logger
}

func New(ctx context.Context, cfg Config, logger Logger) (*Pusher, error) {

	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pusher{
		config:  &cfg,
		ctx:     ctx,
		cancel:  cancel,
		client:  &http.Client{},
		quit:    make(chan struct{}),
		entries: make(chan LogEntry, cfg.BatchMaxSize),
		batch:   make([][2]string, 0, cfg.BatchMaxSize),
		logger:  logger,
	}

	p.waitGroup.Add(1)
	go p.run()
	return p, nil
}

// Push queues a log line for the next batch.
func (p *Pusher) Push(e LogEntry) error {
	p.entries <- e
	return nil
}

// Stop flushes the pending batch and shuts the pusher down.
func (p *Pusher) Stop() {
	close(p.quit)
	p.waitGroup.Wait()
	p.cancel()
}

func (p *Pusher) run() {
	ticker := time.NewTicker(p.config.BatchMaxWait)

	defer func() {
		ticker.Stop()
		p.flush()
		p.waitGroup.Done()
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.quit:
			return
		case entry := <-p.entries:
			if value, ok := encode(entry); ok {
				p.batch = append(p.batch, value)
			}
			if len(p.batch) >= p.config.BatchMaxSize {
				p.flush()
			}
		case <-ticker.C:
			p.flush()
		}
	}
}

func (p *Pusher) flush() {
	if len(p.batch) == 0 {
		return
	}
	if err := p.send(); err != nil {
		p.logger.Error("failed to send logs to loki", "error", err)
	}
	p.batch = p.batch[:0]
}

func encode(entry LogEntry) ([2]string, bool) {
	line, err := json.Marshal(entry)
	if err != nil {
		return [2]string{}, false
	}
	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	return [2]string{timestamp, string(line)}, true
}

func (p *Pusher) send() error {

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	payload := pushRequest{Streams: []stream{{
		Stream: p.config.Labels,
		Values: p.batch,
	}}}
	if err := json.NewEncoder(gz).Encode(payload); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(p.ctx, http.MethodPost, p.config.Url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if p.config.Username != "" && p.config.Password != "" {
		req.SetBasicAuth(p.config.Username, p.config.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("loki responded with status %d", resp.StatusCode)
	}
	return nil
}
