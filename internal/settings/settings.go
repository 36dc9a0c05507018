package settings

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vitistack/common/pkg/loggers/vlog"
	"github.com/vitistack/common/pkg/settings/dotenv"
	"github.com/vitistack/kea-hostimport/internal/consts"
)

func Init() {
	viper.SetDefault(consts.JSON_LOGGING, true)
	viper.SetDefault(consts.LOG_LEVEL, "info")
	viper.SetDefault(consts.KEA_DISABLE_KEEPALIVES, true)
	viper.SetDefault(consts.KEA_OPERATION_TARGET, "all")

	viper.SetDefault(consts.DEFAULT_SUBNET_ID, 0)
	viper.SetDefault(consts.NO_IP_CLIENT_CLASS, consts.DefaultNoIPClientClass)
	viper.SetDefault(consts.SUBNET_MAP_STRICT, true)
	viper.SetDefault(consts.SINK, consts.SinkPostgres)
	viper.SetDefault(consts.COMMIT_MODE, consts.CommitBatch)
	viper.SetDefault(consts.DB_SSLMODE, "prefer")
	viper.SetDefault(consts.DB_TIMEOUT_SECONDS, 10)

	dotenv.LoadDotEnv()

	// Read environment variables automatically
	viper.AutomaticEnv()

	printEnvironmentSettings()
}

// BindFlags maps command line flags onto their configuration keys. A flag set on
// the command line wins over the environment and .env values.
func BindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for flagName, key := range keys {
		f := flags.Lookup(flagName)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func printEnvironmentSettings() {
	settings := []string{
		consts.JSON_LOGGING,
		consts.LOG_LEVEL,
		consts.LEASE_FILE,
		consts.DEFAULT_SUBNET_ID,
		consts.NO_IP_CLIENT_CLASS,
		consts.SUBNET_MAP,
		consts.SUBNET_MAP_STRICT,
		consts.DRY_RUN,
		consts.SINK,
		consts.COMMIT_MODE,
		consts.DB_HOST,
		consts.DB_PORT,
		consts.DB_USER,
		consts.DB_NAME,
		consts.DB_SSLMODE,
		consts.DB_PATH,
		consts.KEA_BASE_URL,
		consts.KEA_URL,
		consts.KEA_PORT,
		consts.KEA_TLS_CA_FILE,
		consts.KEA_TLS_CERT_FILE,
		consts.KEA_TLS_KEY_FILE,
		consts.KEA_TLS_ENABLED,
		consts.KEA_TLS_INSECURE,
		consts.KEA_TLS_SERVER_NAME,
		consts.KEA_TIMEOUT_SECONDS,
		consts.KEA_TLS_SECRET_NAME,
		consts.KEA_TLS_SECRET_NAMESPACE,
		consts.KEA_DISABLE_KEEPALIVES,
		consts.KEA_OPERATION_TARGET,
	}

	for _, s := range settings {
		val := viper.Get(s)
		if val != nil {
			// #nosec G202
			vlog.Debug(s + "=" + viper.GetString(s))
		}
	}
}
