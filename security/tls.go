package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig configures the listener's certificate and, optionally, client
// certificate verification.
type TLSConfig struct {
	// CertFile is the PEM server certificate.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`

	// KeyFile is the PEM private key of CertFile.
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`

	// ClientCAFile enables mutual TLS: clients must present a certificate
	// signed by one of these CAs.
	ClientCAFile string `yaml:"client_ca_file" mapstructure:"client_ca_file"`

	// MinVersion is the minimum TLS version, "1.2" or "1.3". Defaults to 1.2.
	MinVersion string `yaml:"min_version" mapstructure:"min_version"`
}

// IsEnabled reports whether a certificate is configured.
func (c *TLSConfig) IsEnabled() bool {
	return c != nil && c.CertFile != ""
}

// Validate checks that the configuration is consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("security/tls: both cert_file and key_file must be provided together")
	}
	if c.ClientCAFile != "" && c.CertFile == "" {
		return fmt.Errorf("security/tls: client_ca_file requires cert_file and key_file")
	}
	if _, err := c.minVersion(); err != nil {
		return err
	}
	return nil
}

// Build creates the server *tls.Config. It returns nil when TLS is disabled.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	minVersion, _ := c.minVersion()
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("security/tls: failed to load server certificate: %w", err)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}
	if err := c.loadClientCA(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *TLSConfig) minVersion() (uint16, error) {
	switch c.MinVersion {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("security/tls: unsupported min_version %q (use 1.2 or 1.3)", c.MinVersion)
	}
}

func (c *TLSConfig) loadClientCA(cfg *tls.Config) error {
	if c.ClientCAFile == "" {
		return nil
	}
	ca, err := os.ReadFile(c.ClientCAFile)
	if err != nil {
		return fmt.Errorf("security/tls: failed to read client CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return fmt.Errorf("security/tls: failed to parse client CA certificate")
	}
	cfg.ClientCAs = pool
	cfg.ClientAuth = tls.RequireAndVerifyClientCert
	return nil
}
