package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// DevSender stores each message as a JSON file in dir so verification and reset
// links can be followed without a mail provider.
type DevSender struct {
	dir string
	now func() time.Time
	seq atomic.Uint64
}

func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

type storedMessage struct {
	SendEmailParams
	SentAt time.Time `json:"sent_at"`
	Links  []string  `json:"links,omitempty"`
}

var (
	hrefPattern = regexp.MustCompile(`href="([^"]+)"`)
	unsafeName  = regexp.MustCompile(`[^a-z0-9_.-]+`)
)

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	msg := storedMessage{SendEmailParams: params, SentAt: d.now().UTC()}
	for _, m := range hrefPattern.FindAllStringSubmatch(params.BodyHTML, -1) {
		msg.Links = append(msg.Links, strings.ReplaceAll(m[1], "&amp;", "&"))
	}
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	name := fmt.Sprintf("%s_%04d_%s.json", msg.SentAt.Format("20060102T150405"), d.seq.Add(1), fileLabel(params))
	if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

func fileLabel(p SendEmailParams) string {
	label := p.Tag
	if label == "" {
		label = p.Subject
	}
	label = unsafeName.ReplaceAllString(strings.ToLower(label), "-")
	label = strings.Trim(label, "-")
	if len(label) > 60 {
		label = label[:60]
	}
	if label == "" {
		return "email"
	}
	return label
}
