package consts

const (
	JSON_LOGGING = "JSON_LOGGING"
	LOG_LEVEL    = "LOG_LEVEL"

	// import pipeline
	LEASE_FILE         = "LEASE_FILE"
	DEFAULT_SUBNET_ID  = "DEFAULT_SUBNET_ID"
	NO_IP_CLIENT_CLASS = "NO_IP_CLIENT_CLASS"
	SUBNET_MAP         = "SUBNET_MAP"        // repeated prefix=subnet-id entries, priority order
	SUBNET_MAP_STRICT  = "SUBNET_MAP_STRICT" // fail on malformed entries instead of skipping them
	DEBUG              = "DEBUG"
	DRY_RUN            = "DRY_RUN"
	FAIL_ON_REJECT     = "FAIL_ON_REJECT"

	// host sink
	SINK               = "SINK"        // postgres | mysql | sqlite3 | kea
	COMMIT_MODE        = "COMMIT_MODE" // batch | per-record
	DB_HOST            = "DB_HOST"
	DB_PORT            = "DB_PORT"
	DB_USER            = "DB_USER"
	DB_PASSWORD        = "DB_PASSWORD" // #nosec G101
	DB_NAME            = "DB_NAME"
	DB_SSLMODE         = "DB_SSLMODE"
	DB_PATH            = "DB_PATH" // sqlite3 file
	DB_TIMEOUT_SECONDS = "DB_TIMEOUT_SECONDS"

	KEA_BASE_URL             = "KEA_BASE_URL"
	KEA_URL                  = "KEA_URL" // full URL e.g. https://host:port (preferred)
	KEA_HOST                 = "KEA_HOST"
	KEA_PORT                 = "KEA_PORT"
	KEA_TLS_CA_FILE          = "KEA_TLS_CA_FILE"
	KEA_TLS_CERT_FILE        = "KEA_TLS_CERT_FILE"
	KEA_TLS_KEY_FILE         = "KEA_TLS_KEY_FILE"
	KEA_TLS_ENABLED          = "KEA_TLS_ENABLED" // boolean toggle; default false
	KEA_TLS_INSECURE         = "KEA_TLS_INSECURE"
	KEA_TLS_SERVER_NAME      = "KEA_TLS_SERVER_NAME"
	KEA_TIMEOUT_SECONDS      = "KEA_TIMEOUT_SECONDS"
	KEA_TLS_SECRET_NAME      = "KEA_TLS_SECRET_NAME"      // #nosec G101
	KEA_TLS_SECRET_NAMESPACE = "KEA_TLS_SECRET_NAMESPACE" // #nosec G101
	KEA_DISABLE_KEEPALIVES   = "KEA_DISABLE_KEEPALIVES"   // boolean; disable HTTP keep-alive reuse
	KEA_OPERATION_TARGET     = "KEA_OPERATION_TARGET"     // memory | database | all
)

const (
	SinkPostgres = "postgres"
	SinkMySQL    = "mysql"
	SinkSQLite   = "sqlite3"
	SinkKea      = "kea"

	CommitBatch     = "batch"
	CommitPerRecord = "per-record"

	DefaultNoIPClientClass = "no-ip-reservations"
)
