// Package domain contains the core domain model for the daylight tool.
//
// The domain is engine- and persistence-agnostic: it does not depend on JSON parsing,
// os/exec, or the filesystem. Infra/adapters map into/from these types.
package domain
