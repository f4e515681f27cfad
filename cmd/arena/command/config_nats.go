package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-arena/internal/messaging"
	"github.com/pixil98/go-errors"
)

const (
	defaultSubjectPrefix   = "arena"
	defaultPublishInterval = 100 * time.Millisecond
)

type NatsConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	StartTimeout    string `json:"start_timeout"`
	SubjectPrefix   string `json:"subject_prefix"`
	PublishInterval string `json:"publish_interval"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		if _, err := time.ParseDuration(n.StartTimeout); err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}

	if _, err := parseInterval(n.PublishInterval, defaultPublishInterval); err != nil {
		el.Add(fmt.Errorf("parsing publish_interval: %w", err))
	}

	if n.Port < -1 || n.Port > 65535 {
		el.Add(fmt.Errorf("port must be between -1 and 65535"))
	}

	return el.Err()
}

func (n *NatsConfig) subjectPrefix() string {
	if n.SubjectPrefix == "" {
		return defaultSubjectPrefix
	}
	return n.SubjectPrefix
}

func (n *NatsConfig) publishInterval() time.Duration {
	d, _ := parseInterval(n.PublishInterval, defaultPublishInterval)
	return d
}

func (n *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if n.StartTimeout != "" {
		d, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if n.Host != "" {
		opts = append(opts, messaging.WithHost(n.Host))
	}
	if n.Port != 0 {
		opts = append(opts, messaging.WithPort(n.Port))
	}

	return messaging.NewNatsServer(opts...)
}
