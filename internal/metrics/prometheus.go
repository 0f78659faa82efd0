package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentilens_analysis_duration_seconds",
			Help:    "Full analysis pass duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	DatasetsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentilens_datasets_processed_total",
			Help: "Total datasets uploaded or loaded",
		},
	)

	DatasetRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentilens_dataset_rows",
			Help:    "Row counts of processed datasets",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilens_cache_hits_total",
			Help: "Total report cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilens_cache_misses_total",
			Help: "Total report cache misses",
		},
		[]string{"cache_type"},
	)

	ChatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilens_chat_requests_total",
			Help: "Total chat assistant requests",
		},
		[]string{"status"},
	)

	ScrapeRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentilens_scrape_runs_total",
			Help: "Total scraper runs",
		},
		[]string{"status"},
	)

	ScrapedComments = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentilens_scraped_comments_total",
			Help: "Total comments collected by the scraper",
		},
	)
)

func Init() {
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(DatasetsProcessed)
	prometheus.MustRegister(DatasetRows)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(ChatRequests)
	prometheus.MustRegister(ScrapeRuns)
	prometheus.MustRegister(ScrapedComments)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
