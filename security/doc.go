// Package security holds the listener TLS settings of the auth server.
//
//	cfg := security.TLSConfig{
//	    CertFile:     "/etc/authkit/tls.crt",
//	    KeyFile:      "/etc/authkit/tls.key",
//	    ClientCAFile: "/etc/authkit/clients-ca.crt", // optional, enables mTLS
//	}
//
//	tlsConfig, err := cfg.Build()
package security
