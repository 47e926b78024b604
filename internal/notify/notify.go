// Package notify hands each student's summary line to a downstream mailer.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/rollbook/internal/models"
)

const DefaultKeyTemplate = "rollbook:notify:{class}"

type Notice struct {
	Class     string `json:"class"`
	StudentNo string `json:"student_no"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Line      string `json:"line"`
}

type Publisher interface {
	Publish(ctx context.Context, notices []Notice) error
	Close() error
}

// Notices builds one notice per grade record that has a contact address.
func Notices(book []models.GradeRecord) []Notice {
	var out []Notice
	for _, r := range book {
		if r.Email == "" {
			continue
		}
		out = append(out, Notice{
			Class:     r.Class,
			StudentNo: r.StudentNo,
			Name:      r.Name,
			Email:     r.Email,
			Line:      r.SummaryLine,
		})
	}
	return out
}

// RedisPublisher appends notices as JSON to one list per class.
type RedisPublisher struct {
	redis       *redis.Client
	keyTemplate string
}

func NewRedisPublisher(ctx context.Context, url, keyTemplate string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if keyTemplate == "" {
		keyTemplate = DefaultKeyTemplate
	}
	return &RedisPublisher{redis: client, keyTemplate: keyTemplate}, nil
}

func Key(template, class string) string {
	return strings.NewReplacer("{class}", class).Replace(template)
}

func (p *RedisPublisher) Publish(ctx context.Context, notices []Notice) error {
	if len(notices) == 0 {
		return nil
	}

	pipe := p.redis.Pipeline()
	for _, n := range notices {
		payload, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("failed to encode notice for %s/%s: %w", n.Class, n.StudentNo, err)
		}
		pipe.RPush(ctx, Key(p.keyTemplate, n.Class), payload)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish notices: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	if p.redis != nil {
		return p.redis.Close()
	}
	return nil
}
