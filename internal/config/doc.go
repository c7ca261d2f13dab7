// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the interpreter settings file.
//
// The file is YAML. Every key is optional; missing or non-positive values
// fall back to the built-in defaults. Unknown keys are an error so that a
// typo does not silently leave a default in place.
//
// line_editing selects liner for interactive input. liner cannot draw
// coloured prompts, so it is off by default; turning it on trades the
// colours for editing and history.
//
//	show_full_path: true
//	line_editing: false
//	max_args: 512
//	max_stages: 100
//	max_batch_lines: 100
//	max_path: 4096
//	history_file: ~/.mush_history
//	monitor:
//	  executable: monitor/metrics
//	  config_file: config.json
//	  pid_file: monitor.pid
//	  stop_signal: SIGINT
//	  reload_signal: SIGHUP
package config
