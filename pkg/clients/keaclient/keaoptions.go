package keaclient

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vitistack/common/pkg/loggers/vlog"
	"github.com/vitistack/kea-hostimport/internal/consts"
	corev1 "k8s.io/api/core/v1"
)

type KeaOption interface {
	apply(*keaClient)
}

type optionFunc func(*keaClient)

func (of optionFunc) apply(cfg *keaClient) { of(cfg) }

func OptionServerString(serverstring string) KeaOption {
	return optionFunc(func(cfg *keaClient) {
		serverparts := strings.SplitN(serverstring, ":", 2)
		if len(serverparts) == 2 {
			cfg.BaseUrl = serverparts[0]
			cfg.Port = serverparts[1]
		} else {
			cfg.BaseUrl = serverparts[0]
			cfg.Port = "8000" // default KEA port
		}
		if cfg.BaseUrl == "" || cfg.Port == "" {
			vlog.Warn("error parsing kea server string", "server", serverstring)
		}
	})
}

func OptionHost(host string) KeaOption {
	return optionFunc(func(cfg *keaClient) {
		cfg.BaseUrl = host
	})
}

func OptionPort(port string) KeaOption {
	return optionFunc(func(cfg *keaClient) {
		cfg.Port = port
	})
}

// TLS and HTTP options
func OptionTLS(caFile, certFile, keyFile string) KeaOption {
	return optionFunc(func(cfg *keaClient) {
		cfg.CACertPath = caFile
		cfg.ClientCertPath = certFile
		cfg.ClientKeyPath = keyFile
	})
}

func OptionInsecureSkipVerify(insecure bool) KeaOption {
	return optionFunc(func(cfg *keaClient) {
		cfg.InsecureSkipVerify = insecure
	})
}

func OptionServerName(serverName string) KeaOption {
	return optionFunc(func(cfg *keaClient) {
		cfg.ServerName = serverName
	})
}

func OptionTimeout(d time.Duration) KeaOption {
	return optionFunc(func(cfg *keaClient) {
		cfg.Timeout = d
		if cfg.HttpClient != nil {
			cfg.HttpClient.Timeout = d
		}
	})
}

func OptionDisableKeepAlives(disable bool) KeaOption {
	return optionFunc(func(cfg *keaClient) {
		cfg.DisableKeepAlives = disable
	})
}

// OptionFromEnv reads the KEA_* settings from viper.
func OptionFromEnv() KeaOption {
	return optionFunc(func(cfg *keaClient) {
		_ = viper.BindEnv(consts.KEA_PORT)
		_ = viper.BindEnv(consts.KEA_TLS_CA_FILE)
		_ = viper.BindEnv(consts.KEA_TLS_CERT_FILE)
		_ = viper.BindEnv(consts.KEA_TLS_KEY_FILE)
		_ = viper.BindEnv(consts.KEA_TLS_INSECURE)
		_ = viper.BindEnv(consts.KEA_TLS_SERVER_NAME)
		_ = viper.BindEnv(consts.KEA_TIMEOUT_SECONDS)
		_ = viper.BindEnv(consts.KEA_DISABLE_KEEPALIVES)

		if base := envBaseURL(); base != "" {
			cfg.BaseUrl = base
		}
		if port := viper.GetString(consts.KEA_PORT); port != "" {
			cfg.Port = port
		}
		cfg.CACertPath = viper.GetString(consts.KEA_TLS_CA_FILE)
		cfg.ClientCertPath = viper.GetString(consts.KEA_TLS_CERT_FILE)
		cfg.ClientKeyPath = viper.GetString(consts.KEA_TLS_KEY_FILE)
		cfg.InsecureSkipVerify = viper.GetBool(consts.KEA_TLS_INSECURE)
		cfg.ServerName = viper.GetString(consts.KEA_TLS_SERVER_NAME)
		cfg.DisableKeepAlives = viper.GetBool(consts.KEA_DISABLE_KEEPALIVES)
		if secs := viper.GetInt(consts.KEA_TIMEOUT_SECONDS); secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	})
}

// OptionTLSFromSecret uses the ca.crt, tls.crt and tls.key entries of a
// kubernetes.io/tls style secret.
func OptionTLSFromSecret(sec *corev1.Secret) KeaOption {
	return optionFunc(func(cfg *keaClient) {
		if sec == nil {
			return
		}
		if ca := sec.Data["ca.crt"]; len(ca) > 0 {
			cfg.CACertPEM = ca
		}
		if crt := sec.Data[corev1.TLSCertKey]; len(crt) > 0 {
			cfg.ClientCertPEM = crt
		}
		if key := sec.Data[corev1.TLSPrivateKeyKey]; len(key) > 0 {
			cfg.ClientKeyPEM = key
		}
	})
}
