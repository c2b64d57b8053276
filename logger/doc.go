// Package logger provides structured logging for the shop client using
// zerolog.
//
// It supports JSON and console output, per-logger levels, and
// component-scoped loggers with map-based structured fields.
//
// # Configuration
//
//	log:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Log, "shopctl").WithComponent("pipeline")
//	log.Info("request sent", logger.Fields(logger.FieldAPI, "/order/202309/orders"))
package logger
