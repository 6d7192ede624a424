package smtp_client

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SmtpServerList struct {
	Servers []SmtpServer `yaml:"servers"`
	From    string       `yaml:"from"`
	Sender  string       `yaml:"sender"`
	ReplyTo []string     `yaml:"replyTo"`
}

type SmtpServer struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	Connections        int    `yaml:"connections"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	NoTLS              bool   `yaml:"noTLS"`
	AuthData           struct {
		Username string `yaml:"user"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
	SendTimeout int `yaml:"sendTimeout"`
}

// Address URI to smtp server
func (s *SmtpServer) Address() string {
	return s.Host + ":" + s.Port
}

// OverridePasswords sets the same password for every server, e.g. from an env variable.
func (sl *SmtpServerList) OverridePasswords(password string) {
	if password == "" {
		return
	}
	for i := range sl.Servers {
		sl.Servers[i].AuthData.Password = password
	}
}

// ReadFromFile loads and validates the server list.
func (sl *SmtpServerList) ReadFromFile(fname string) error {
	yamlFile, err := os.ReadFile(fname)
	if err != nil {
		slog.Error("could not read server config file", slog.String("file", fname), slog.String("error", err.Error()))
		return err
	}
	if err := yaml.UnmarshalStrict(yamlFile, sl); err != nil {
		return err
	}
	return sl.Validate()
}

// Validate checks that every server can be dialed and that a sender address is set.
func (sl *SmtpServerList) Validate() error {
	if len(sl.Servers) == 0 {
		return errors.New("no smtp servers defined")
	}
	if sl.From == "" {
		return errors.New("smtp from address missing")
	}
	for i, server := range sl.Servers {
		if server.Host == "" {
			return fmt.Errorf("smtp server %d: host missing", i)
		}
		if _, err := strconv.Atoi(server.Port); err != nil {
			return fmt.Errorf("smtp server %s: invalid port %q", server.Host, server.Port)
		}
	}
	return nil
}
