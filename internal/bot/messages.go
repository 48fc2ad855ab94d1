package bot

// Buttons and callback data.
const (
	ButtonAdd    = "➕ Добавить"
	ButtonDone   = "✅ Готово"
	CallbackDone = "done"
)

const (
	msgGreeting         = "Привет! Нажми «➕ Добавить», чтобы внести трату."
	msgEnterAmount      = "Введи сумму (например 250.50)"
	msgBadAmount        = "Не понял сумму. Попробуй ещё раз, например 199.99"
	msgAskDescription   = "Окей. Теперь напиши — *на что?*"
	msgAmountAccepted   = "Принял. Теперь — на что?"
	msgNotUnderstood    = "Не понял. Нажми «➕ Добавить» или просто введи сумму."
	msgEmptyDescription = "Напиши словами, на что потрачено."
	msgRecorded         = "Готово! Добавил %s на *%s*. ID: `%s`"
	msgAddMore          = "Ок, добавим ещё. Введи сумму:"
	msgBye              = "Супер, заходи ещё! 👋"
	msgAddLater         = "Чтобы добавить новую трату позже — нажми «➕ Добавить»."
	msgNoBlock          = "Не нашёл блок для трат на вкладке этого месяца. Проверь таблицу и начни заново с суммы."
	msgWriteFailed      = "Не получилось записать трату. Попробуй ещё раз, начиная с суммы."
)
