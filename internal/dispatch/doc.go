// Package dispatch рассылает уведомления совпавшим получателям.
//
// Dispatcher запускает вызовы доставки параллельно (fan-out) и дожидается
// всех исходов (fan-in, settle-all). На каждый исход пишется одна
// DispatchAttempt через Recorder: 200 "Notification sent at HH:MM" или
// 500 "Error: <причина>". Ошибки доставки не поднимаются к оркестратору.
//
// FunctionClient — HTTP-реализация Deliverer для Supabase Edge Function.
package dispatch
