package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"nicks/internal/models"
	"nicks/internal/services"
)

type HealthController struct {
	service   services.MigrationServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status         string               `json:"status"`
	Uptime         string               `json:"uptime"`
	UptimeSeconds  float64              `json:"uptime_seconds"`
	OnchainVersion models.SchemaVersion `json:"onchain_version"`
	TargetVersion  models.SchemaVersion `json:"target_version"`
	Records        uint64               `json:"records"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	st, err := hc.service.Status()
	if err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:         "ok",
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  uptime.Seconds(),
		OnchainVersion: st.Onchain,
		TargetVersion:  st.Target,
		Records:        st.Records,
	}
	if st.Onchain != st.Target {
		resp.Status = "degraded"
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.MigrationServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
	}
}
