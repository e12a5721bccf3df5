package domain

// Recipient — пользователь, которому нужно отправить уведомление.
//
// Данные принадлежат внешнему хранилищу (таблица notification_settings).
// Сервис держит только снимок на время одного цикла и не кэширует его.
type Recipient struct {
	// ID — непрозрачный идентификатор пользователя (user_id).
	ID string `json:"user_id"`

	// DeliveryToken — токен, по которому адресуется доставка (fcm_token).
	DeliveryToken string `json:"fcm_token"`

	// Times — расписание в формате "HH:MM".
	// Значения могут прийти из хранилища не строками (числа, bool),
	// поэтому тип []any; нормализация выполняется при сопоставлении.
	Times []any `json:"times"`

	// Enabled — флаг включённых уведомлений.
	Enabled bool `json:"enabled"`
}

// IsEligible проверяет, может ли пользователь получать уведомления:
// enabled=true, токен не пустой и расписание не пустое.
func (r *Recipient) IsEligible() bool {
	return r.Enabled && r.DeliveryToken != "" && len(r.Times) > 0
}
