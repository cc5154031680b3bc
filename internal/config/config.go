// Package config holds the invocation options of the check binaries, their
// defaults, flag bindings and validation.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dm/check-es/internal/client"
)

const (
	DefaultPort    = 9200
	DefaultTimeout = 10 * time.Second
	DefaultIndex   = "_all"
	DefaultQuery   = `{"match_all": {}}`
)

var validate = validator.New()

// Connection describes how to reach the Elasticsearch HTTP endpoint.
type Connection struct {
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	SSL      bool
	Insecure bool
	User     string
	Password string
	Timeout  time.Duration `validate:"gt=0"`
}

// BaseURL returns scheme://host:port, https when SSL is set.
func (c Connection) BaseURL() string {
	scheme := "http"
	if c.SSL {
		scheme = "https"
	}
	host := strings.TrimSuffix(strings.TrimPrefix(c.Host, "["), "]")
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(c.Port))
}

// ClientConfig returns the HTTP client settings for c.
func (c Connection) ClientConfig(sendContentType bool) client.ClientConfig {
	return client.ClientConfig{
		BaseURL:            c.BaseURL(),
		Username:           c.User,
		Password:           c.Password,
		InsecureSkipVerify: c.Insecure,
		RequestTimeout:     c.Timeout,
		SendContentType:    sendContentType,
	}
}

// Settings is what a check binary needs once its options are parsed.
type Settings struct {
	Client   client.ClientConfig
	Verbose  bool
	Textfile string
}

// Thresholds is a warning/critical pair. A value strictly greater than a
// threshold triggers it.
type Thresholds struct {
	Warning  int `validate:"gte=0,ltefield=Critical"`
	Critical int `validate:"gte=0"`
}

// HealthOptions configures check_elasticsearch. An empty Node selects the
// cluster health check.
type HealthOptions struct {
	Connection Connection
	Node       string
	CPU        Thresholds
	Heap       Thresholds
	FS         Thresholds
	Verbose    bool
	Textfile   string
}

// DefaultHealthOptions returns the documented defaults.
func DefaultHealthOptions() HealthOptions {
	return HealthOptions{
		Connection: defaultConnection(),
		CPU:        Thresholds{Warning: 90, Critical: 95},
		Heap:       Thresholds{Warning: 90, Critical: 95},
		FS:         Thresholds{Warning: 90, Critical: 95},
	}
}

// Validate reports every invalid field at once.
func (o HealthOptions) Validate() error {
	return describe(validate.Struct(o))
}

// Settings returns the client, logging and export settings of o. The
// health endpoints take no body, so no Content-Type is sent.
func (o HealthOptions) Settings() Settings {
	return Settings{
		Client:   o.Connection.ClientConfig(false),
		Verbose:  o.Verbose,
		Textfile: o.Textfile,
	}
}

// LastEntryOptions configures check_elasticsearch_last_entry. Age thresholds
// are in seconds.
type LastEntryOptions struct {
	Connection      Connection
	Index           string `validate:"required"`
	Query           string `validate:"required,json"`
	Age             Thresholds
	SendContentType bool
	ShowIndex       bool
	Verbose         bool
	Textfile        string
}

// DefaultLastEntryOptions returns the documented defaults.
func DefaultLastEntryOptions() LastEntryOptions {
	return LastEntryOptions{
		Connection:      defaultConnection(),
		Index:           DefaultIndex,
		Query:           DefaultQuery,
		Age:             Thresholds{Warning: 600, Critical: 3600},
		SendContentType: true,
		ShowIndex:       true,
	}
}

// Validate reports every invalid field at once.
func (o LastEntryOptions) Validate() error {
	return describe(validate.Struct(o))
}

// Settings returns the client, logging and export settings of o.
func (o LastEntryOptions) Settings() Settings {
	return Settings{
		Client:   o.Connection.ClientConfig(o.SendContentType),
		Verbose:  o.Verbose,
		Textfile: o.Textfile,
	}
}

func defaultConnection() Connection {
	return Connection{Port: DefaultPort, Timeout: DefaultTimeout}
}

// describe turns validator errors into one readable error.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Namespace()
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "json":
		return name + " must be valid JSON"
	case "ltefield":
		sibling := fe.Param()
		if i := strings.LastIndex(name, "."); i >= 0 {
			sibling = name[:i+1] + sibling
		}
		return fmt.Sprintf("%s (%v) must not exceed %s", name, fe.Value(), sibling)
	case "min", "gte", "gt":
		return fmt.Sprintf("%s (%v) must be %s %s", name, fe.Value(), opWord(fe.Tag()), fe.Param())
	case "max":
		return fmt.Sprintf("%s (%v) must be at most %s", name, fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", name, fe.Tag())
	}
}

func opWord(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}
