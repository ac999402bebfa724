// Package health реализует проверку работоспособности сервиса.
package health

import "net/http"

// Handler возвращает обработчик проверки работоспособности.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<h3>Backend OK</h3>"))
	}
}
