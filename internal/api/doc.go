// Package api — HTTP-оболочка notifyd.
//
// Маршруты:
//   - GET  /health                — проверка живости (её опрашивает backup)
//   - POST /trigger-notifications — ручной запуск одного цикла
//   - GET  /status                — primary/backup и решение монитора живости
//
// /metrics регистрируется в cmd/notifyd через promhttp.
package api
