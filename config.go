package contentjson

import "github.com/goliatone/go-contentjson/internal/runtimeconfig"

var (
	ErrContentDirRequired       = runtimeconfig.ErrContentDirRequired
	ErrManifestNameInvalid      = runtimeconfig.ErrManifestNameInvalid
	ErrDependencyPrefixRequired = runtimeconfig.ErrDependencyPrefixRequired
	ErrStorageProviderUnknown   = runtimeconfig.ErrStorageProviderUnknown
	ErrS3EndpointRequired       = runtimeconfig.ErrS3EndpointRequired
	ErrS3BucketRequired         = runtimeconfig.ErrS3BucketRequired
	ErrS3CredentialsRequired    = runtimeconfig.ErrS3CredentialsRequired
	ErrSQLiteDSNRequired        = runtimeconfig.ErrSQLiteDSNRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrBuildTimeoutInvalid      = runtimeconfig.ErrBuildTimeoutInvalid
)

type (
	Config         = runtimeconfig.Config
	ScanConfig     = runtimeconfig.ScanConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	StorageConfig  = runtimeconfig.StorageConfig
	S3Config       = runtimeconfig.S3Config
	SQLiteConfig   = runtimeconfig.SQLiteConfig
	BuildConfig    = runtimeconfig.BuildConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig resolves defaults, the optional YAML file at path, .env files and
// CONTENTJSON_* variables, then validates the result.
func LoadConfig(path string, envFiles ...string) (Config, error) {
	return runtimeconfig.Load(path, envFiles...)
}
