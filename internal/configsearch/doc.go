// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package configsearch finds configuration-looking files in a directory tree
// and prints the lines of them that mention credentials, endpoints or metrics.
package configsearch
