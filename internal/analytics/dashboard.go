package analytics

// Dashboard is every figure the operations dashboard shows.
type Dashboard struct {
	Funnel           []FunnelStage     `json:"funil"`
	OccupancyRate    float64           `json:"taxa_ocupacao"`
	CancellationRate float64           `json:"taxa_cancelamento"`
	AbsenteeismRate  float64           `json:"taxa_absenteismo"`
	AverageWaitDays  float64           `json:"espera_media_dias"`
	WaitSamples      int               `json:"espera_amostras"`
	DemandSupply     []MonthlyDemand   `json:"demanda_oferta"`
	Heatmap          Heatmap           `json:"mapa_procedimentos"`
	Trend            []TrendBucket     `json:"tendencia"`
	Cohort           []CohortBucket    `json:"coorte_primeiro_plantao"`
	Feedback         []FeedbackAverage `json:"medias_feedback"`
}

// BuildDashboard composes every aggregation. Only the trend honours the date range.
func BuildDashboard(in Input, opts TrendOptions) Dashboard {
	avg, n := AverageWaitDays(in.Attempts)
	return Dashboard{
		Funnel:           Funnel(in),
		OccupancyRate:    OccupancyRate(in.Shifts),
		CancellationRate: CancellationRate(in.Shifts),
		AbsenteeismRate:  AbsenteeismRate(in.Forms),
		AverageWaitDays:  avg,
		WaitSamples:      n,
		DemandSupply:     DemandSupply(in.Shifts, in.Attempts),
		Heatmap:          ProcedureHeatmap(in.Forms),
		Trend:            SchedulingTrend(in.Shifts, opts),
		Cohort:           FirstShiftCohort(in.Shifts),
		Feedback:         FeedbackAverages(in.Feedback),
	}
}
