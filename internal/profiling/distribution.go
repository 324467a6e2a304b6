package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary holds the descriptive statistics of one numeric sample
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"excess_kurtosis"`
	// JarqueBeraP is the p-value of the Jarque-Bera normality test
	JarqueBeraP float64 `json:"jarque_bera_p"`
	Bounds      Bounds  `json:"bounds"`
	Outliers    int     `json:"outliers"`
}

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// AnalyzeDistribution computes summary statistics of a non-empty sample
func (da *DistributionAnalyzer) AnalyzeDistribution(data []float64) (Summary, error) {
	summary := Summary{Count: len(data)}

	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}

	bounds, err := IQRBounds(data)
	if err != nil {
		return summary, err
	}

	// Sample (n-1) standard deviation; NaN for a single observation
	mean, stdDev := stat.MeanStdDev(data, nil)

	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = min
	summary.Max = max
	summary.Median = median
	summary.Bounds = bounds
	summary.Outliers = detectOutliers(data, bounds)

	if len(data) >= 3 && stdDev > 0 {
		summary.Skewness = stat.Skew(data, nil)
		summary.Kurtosis = stat.ExKurtosis(data, nil)
		summary.JarqueBeraP = jarqueBera(len(data), summary.Skewness, summary.Kurtosis)
	} else {
		summary.JarqueBeraP = math.NaN()
	}

	return summary, nil
}

// jarqueBera returns the p-value of JB = n/6 * (S^2 + K^2/4) under chi-square(2)
func jarqueBera(n int, skewness, excessKurtosis float64) float64 {
	jb := float64(n) / 6 * (skewness*skewness + excessKurtosis*excessKurtosis/4)
	chiDist := distuv.ChiSquared{K: 2}
	return 1 - chiDist.CDF(jb)
}

// detectOutliers counts values outside the IQR fence
func detectOutliers(data []float64, bounds Bounds) int {
	outlierCount := 0
	for _, x := range data {
		if !bounds.Contains(x) {
			outlierCount++
		}
	}
	return outlierCount
}
