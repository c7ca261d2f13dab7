// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package monitor controls the metrics exporter daemon.
//
// The exporter is a separate program. The interpreter starts it with the
// path of its JSON configuration, remembers its pid in a pid file and talks
// to it only through signals: one to stop it and one to make it reload the
// configuration. Every path is resolved against PROJECT_ROOT.
package monitor
