package converter

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/simularium/simconv/internal/converter"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
