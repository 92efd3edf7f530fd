package respond

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// Error пишет тело вида {"Erro": "..."}
func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, map[string]string{"Erro": message})
}

// Status отвечает кодом без тела
func Status(w http.ResponseWriter, r *http.Request, code int) {
	w.WriteHeader(code)
}
