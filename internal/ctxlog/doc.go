// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger that can be used to log messages.
// It uses the slog package for structured logging and supports different log levels.
//
// The default is a pretty console handler writing to stderr. The level comes
// from MUSH_LOG_LEVEL ("DEBUG", "INFO", "WARN", "ERROR"), defaulting to WARN,
// and can be overridden at runtime through LevelVar.
package ctxlog
