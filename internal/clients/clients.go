package clients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vitistack/common/pkg/loggers/vlog"
	"github.com/vitistack/kea-hostimport/internal/consts"
	"github.com/vitistack/kea-hostimport/pkg/clients/hostsdb"
	"github.com/vitistack/kea-hostimport/pkg/clients/keaclient"
	"github.com/vitistack/kea-hostimport/pkg/interfaces/keainterface"
	"k8s.io/client-go/kubernetes"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
)

var (
	// KeaClient is the control agent client used by the kea sink.
	KeaClient keainterface.KeaClient
)

// InitializeKeaClient initializes the global Kea client.
// Settings come from viper (see internal/consts/consts.go); TLS material is
// read from a Kubernetes secret when KEA_TLS_SECRET_NAME is set.
func InitializeKeaClient() {
	// Base options (env first)
	baseOpts := []keaclient.KeaOption{keaclient.OptionFromEnv()}
	host := viper.GetString(consts.KEA_HOST)
	port := viper.GetString(consts.KEA_PORT)
	if host != "" && viper.GetString(consts.KEA_URL) == "" && viper.GetString(consts.KEA_BASE_URL) == "" {
		baseOpts = append(baseOpts, keaclient.OptionHost(host))
	}
	if port != "" {
		baseOpts = append(baseOpts, keaclient.OptionPort(port))
	}

	// Attempt secret-based TLS if env specifies
	if secretName := viper.GetString(consts.KEA_TLS_SECRET_NAME); secretName != "" {
		secretNS := viper.GetString(consts.KEA_TLS_SECRET_NAMESPACE)
		kc, err := keaClientFromCluster(secretNS, secretName, baseOpts)
		if err == nil && kc != nil {
			KeaClient = kc
			return
		}
		vlog.Warn("kea tls secret not usable, falling back to env/file TLS settings", "secret", secretName, "error", err)
	}

	// Fallback: env/file based only
	KeaClient = keaclient.NewKeaClientWithOptions(baseOpts...)
}

func keaClientFromCluster(namespace, name string, baseOpts []keaclient.KeaOption) (keainterface.KeaClient, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	kube, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, err
	}
	return BuildKeaClientFromSecret(context.Background(), kube, namespace, name, baseOpts...)
}

// HostsDBConfig reads the hosts database connection settings.
func HostsDBConfig() (hostsdb.Config, error) {
	driver := strings.ToLower(viper.GetString(consts.SINK))
	mode := strings.ToLower(viper.GetString(consts.COMMIT_MODE))
	if mode != consts.CommitBatch && mode != consts.CommitPerRecord {
		return hostsdb.Config{}, fmt.Errorf("invalid %s %q: want %s or %s", consts.COMMIT_MODE, mode, consts.CommitBatch, consts.CommitPerRecord)
	}
	cfg := hostsdb.Config{
		Driver:    driver,
		Host:      viper.GetString(consts.DB_HOST),
		Port:      viper.GetInt(consts.DB_PORT),
		User:      viper.GetString(consts.DB_USER),
		Password:  viper.GetString(consts.DB_PASSWORD),
		Database:  viper.GetString(consts.DB_NAME),
		SSLMode:   viper.GetString(consts.DB_SSLMODE),
		Path:      viper.GetString(consts.DB_PATH),
		Timeout:   time.Duration(viper.GetInt(consts.DB_TIMEOUT_SECONDS)) * time.Second,
		PerRecord: mode == consts.CommitPerRecord,
	}
	if driver != consts.SinkSQLite && cfg.Host == "" {
		return hostsdb.Config{}, fmt.Errorf("%s must be set for the %s sink", consts.DB_HOST, driver)
	}
	return cfg, nil
}
