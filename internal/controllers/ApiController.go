package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"nicks/internal/models"
	"nicks/internal/providers"
	"nicks/internal/services"
	"nicks/internal/store"
)

type ApiController struct {
	logger     providers.Logger
	migrations services.MigrationServiceInterface
	nicknames  services.NicknameServiceInterface
}

func NewApiController(logger providers.Logger, migrations services.MigrationServiceInterface, nicknames services.NicknameServiceInterface) *ApiController {
	return &ApiController{
		logger:     logger,
		migrations: migrations,
		nicknames:  nicknames,
	}
}

func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := ac.migrations.Status()
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Status failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(st)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, gson)
}

func (ac *ApiController) GetNick(w http.ResponseWriter, r *http.Request) {
	account, err := models.ParseAccountID(r.URL.Query().Get("account"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	data, err := ac.nicknames.Get(account)
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	case err != nil:
		ac.logger.Errorf(providers.TypeGet, "Lookup of %s failed: %s", account, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, data)
}
