package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/ledgermesh-go/internal/infra/buildinfo"
)

// BuildCollector exports build information as a constant gauge.
type BuildCollector struct {
	desc *prometheus.Desc
	info buildinfo.Info
}

// NewBuildCollector creates a collector for the current binary.
func NewBuildCollector() *BuildCollector {
	return &BuildCollector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "build_info"),
			"Build information, value is always 1.",
			[]string{"version", "commit", "go_version"},
			nil,
		),
		info: buildinfo.Get(),
	}
}

// Describe implements prometheus.Collector.
func (c *BuildCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *BuildCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, 1,
		c.info.Version, c.info.Commit, c.info.GoVersion)
}
