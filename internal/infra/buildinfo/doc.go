// Package buildinfo exposes build-time information injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/ledgermesh-go/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/ledgermesh-go/internal/infra/buildinfo.Commit=abc123"
//
// The values feed the CLI --version output and the ledgermesh_build_info metric.
package buildinfo
