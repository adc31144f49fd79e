package runner

import "time"

const spinAlpha = 0.30

// допустимый интервал между спинами для усреднения
const (
	minSpinSample = time.Second
	maxSpinSample = 40 * time.Second
)

// Telemetry — номер раунда и темп стола.
type Telemetry struct {
	RoundID       int
	AvgSpinMS     float64
	LastSpinAt    time.Time
	LastLatencyMS *int
	lagWarnMS     int
}

func NewTelemetry(defaultSpinMS, lagWarnMS int) *Telemetry {
	return &Telemetry{AvgSpinMS: float64(defaultSpinMS), lagWarnMS: lagWarnMS}
}

// Spin фиксирует добавление n исходов в момент now.
func (t *Telemetry) Spin(n int, now time.Time) {
	if n <= 0 {
		return
	}
	if !t.LastSpinAt.IsZero() {
		dt := now.Sub(t.LastSpinAt)
		if dt >= minSpinSample && dt <= maxSpinSample {
			t.AvgSpinMS = (1-spinAlpha)*t.AvgSpinMS + spinAlpha*float64(dt.Milliseconds())
		}
	}
	t.LastSpinAt = now
	t.RoundID += n
}

// ISO-8601 как шлют коллекторы; время без зоны считается UTC.
var sentAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseSentAt(s string) (time.Time, bool) {
	for _, layout := range sentAtLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Latency — задержка от client_sent_at до приёма. Неразборчивое время даёт 0.
func (t *Telemetry) Latency(clientSentAt string, now time.Time) {
	if clientSentAt == "" {
		return
	}
	ms := 0
	if ts, ok := parseSentAt(clientSentAt); ok {
		ms = int(now.Sub(ts).Milliseconds())
	}
	t.LastLatencyMS = &ms
}

type TelemetryView struct {
	ServerTime time.Time `json:"server_time"`
	RoundID    int       `json:"round_id"`
	AvgSpinMS  int       `json:"avg_spin_ms"`
	EtaMS      *int      `json:"eta_ms"`
	LatencyMS  *int      `json:"latency_ms"`
	LagMS      *int      `json:"lag_ms"`
}

type HealthView struct {
	OK              bool `json:"ok"`
	LagMS           *int `json:"lag_ms"`
	WarnThresholdMS int  `json:"warn_threshold_ms"`
}

func (t *Telemetry) View(now time.Time) (TelemetryView, HealthView) {
	v := TelemetryView{ServerTime: now, RoundID: t.RoundID, AvgSpinMS: int(t.AvgSpinMS)}
	if t.LastLatencyMS != nil {
		l := *t.LastLatencyMS
		v.LatencyMS = &l
	}
	h := HealthView{OK: true, WarnThresholdMS: t.lagWarnMS}
	if !t.LastSpinAt.IsZero() {
		since := int(now.Sub(t.LastSpinAt).Milliseconds())
		eta := max(0, int(max(2000, t.AvgSpinMS))-since)
		v.EtaMS, v.LagMS, h.LagMS = &eta, &since, &since
		h.OK = since < t.lagWarnMS
	}
	return v, h
}
