// Package repo — доступ к удалённому хранилищу получателей и журналу попыток.
//
// Два драйвера с одинаковым поведением:
//   - RESTStore — Supabase PostgREST (по умолчанию)
//   - RecipientRepo + AttemptRepo — напрямую в Postgres через pgx
//
// Ошибки чтения оборачиваются в domain.ErrTransientFetch,
// отсутствие URL/ключа — в domain.ErrConfiguration.
package repo
