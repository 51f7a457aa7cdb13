package config

import (
	"encoding/base64"
	"os"
)

// Credentials holds the Gong access key pair.
type Credentials struct {
	AccessKey       string
	AccessKeySecret string
}

// credentialEnv lists the accepted variable names, most specific first.
var credentialEnv = struct {
	key, secret []string
}{
	key:    []string{"ACCESS_KEY", "GONG_ACCESS_KEY"},
	secret: []string{"ACCESS_KEY_SECRET", "GONG_ACCESS_KEY_SECRET"},
}

// CredentialsFromEnv reads the access key pair from the process environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		AccessKey:       firstEnv(credentialEnv.key),
		AccessKeySecret: firstEnv(credentialEnv.secret),
	}
}

func firstEnv(names []string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Complete reports whether both halves of the key pair are set.
func (c Credentials) Complete() bool {
	return c.AccessKey != "" && c.AccessKeySecret != ""
}

// Missing returns the primary environment variable names that are unset.
func (c Credentials) Missing() []string {
	var missing []string
	if c.AccessKey == "" {
		missing = append(missing, credentialEnv.key[0])
	}
	if c.AccessKeySecret == "" {
		missing = append(missing, credentialEnv.secret[0])
	}
	return missing
}

// AuthorizationHeader returns the static Basic authorization value, or ""
// when the pair is incomplete.
func (c Credentials) AuthorizationHeader() string {
	if !c.Complete() {
		return ""
	}
	token := base64.StdEncoding.EncodeToString([]byte(c.AccessKey + ":" + c.AccessKeySecret))
	return "Basic " + token
}
