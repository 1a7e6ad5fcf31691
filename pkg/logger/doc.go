// Package logger builds *slog.Logger instances for the expensekit services and provides
// attribute helpers so that keys stay consistent across packages.
//
// New applies functional options on top of production defaults (JSON, INFO, stdout).
// Context extractors add request scoped values, such as the request id, to each record
// at logging time.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.AppEnv, "expensekit"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "account registered",
//		logger.Component("credential"),
//		logger.AccountID(acc.ID),
//	)
//
// Secrets such as tokens, password material and credential hashes must never be passed to
// any of the helpers in this package.
package logger
