// Package config provides configuration loading for toastd.
//
// The configuration is stored in toastd.json. Every field is optional; a
// missing file means all defaults. After the file is read, TOASTD_*
// environment variables (and a .env file, if present) override it.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "address": ":8080",
//	    "shutdownTimeoutMs": 10000,
//	    "allowedOrigins": ["https://admin.example.com"]
//	  },
//	  "toast": {
//	    "defaultDurationMs": 4000,
//	    "exitDelayMs": 300,
//	    "maxVisible": 0
//	  },
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "namespace": "toastd", "path": "/metrics"},
//	  "tracing": {"enabled": false, "tracerName": "toastd"},
//	  "archive": {
//	    "bucket": "ops-notifications",
//	    "prefix": "toasts/",
//	    "region": "eu-west-1",
//	    "batchSize": 100,
//	    "flushIntervalMs": 60000
//	  },
//	  "relay": {"redisUrl": "redis://localhost:6379/0", "channel": "toastd:notify"}
//	}
//
// # Environment Overrides
//
// Variables are named after the JSON path, upper-cased with a TOASTD_
// prefix, e.g. TOASTD_SERVER_ADDRESS, TOASTD_TOAST_DEFAULT_DURATION_MS,
// TOASTD_ARCHIVE_BUCKET, TOASTD_RELAY_REDIS_URL.
//
// # Usage
//
//	cfg, err := config.Load("toastd.json")
//	if err != nil {
//	    return err
//	}
//	center := toast.New(cfg.ToastConfig())
package config
