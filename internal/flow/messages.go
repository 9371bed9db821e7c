package flow

const (
	msgChooseRole        = "Пожалуйста, выберите свою роль:"
	msgWelcomeBack       = "С возвращением! Ваша роль: %s"
	msgRegistered        = "Вы успешно зарегистрированы как %s!"
	msgRegisterFailed    = "Ошибка регистрации. Возможно, вы уже зарегистрированы."
	msgInvalidRole       = "Некорректная роль. Пожалуйста, выберите из предложенных."
	msgCancelled         = "Действие отменено."
	msgUnknownCommand    = "Не понимаю команду. Воспользуйтесь кнопками меню."
	msgAccessDenied      = "⛔ Это действие доступно только продавцам."
	msgChooseItem        = "Выберите инвентарь:"
	msgNoItems           = "Нет доступного инвентаря для аренды."
	msgAskHours          = "На сколько часов вы хотите арендовать?"
	msgInvalidHours      = "Некорректный ввод. Пожалуйста, введите целое число часов от 1 до %d."
	msgAskPhone          = "Стоимость аренды: %s руб.\nВаш номер телефона:"
	msgRentalDone        = "Аренда оформлена! ID: %d\nПродолжительность: %d ч.\nСтоимость: %s руб."
	msgRentalFailed      = "Произошла ошибка при оформлении аренды. Попробуйте позже."
	msgItemNotFound      = "⚠️ Инвентарь не найден."
	msgItemNotAvailable  = "⚠️ Этот инвентарь уже арендован. Выберите другой."
	msgChooseType        = "Выберите тип инвентаря:"
	msgInvalidType       = "Некорректный тип инвентаря. Пожалуйста, выберите из предложенных."
	msgAskBrand          = "Введите марку инвентаря (например, Stels):"
	msgEmptyBrand        = "Марка не может быть пустой."
	msgAskSize           = "Введите размер инвентаря (если есть, иначе введите '%s'):"
	msgAskPrice          = "Введите цену за час проката (только число, например, 150.0):"
	msgInvalidPrice      = "Некорректная цена. Пожалуйста, введите неотрицательное число."
	msgItemAdded         = "Инвентарь успешно добавлен с ID: %d"
	msgAddFailed         = "Не удалось добавить инвентарь."
	msgBackToMenu        = "Возвращаюсь в главное меню."
	msgChooseReport      = "Выберите тип отчета:"
	msgFinance           = "Общий доход: %s руб.\nКоличество аренд: %d"
	msgFinanceEmpty      = "Нет данных для финансового отчета."
	msgInventoryHeader   = "Состояние инвентаря:"
	msgInventoryLine     = "%s: %d шт. (%s)"
	msgInventoryEmpty    = "Инвентарь пуст."
	msgPopularHeader     = "Самые популярные:"
	msgPopularLine       = "%d. ID %d (%s) - %d аренд"
	msgPopularEmpty      = "Пока нет ни одной аренды."
	msgExportCaption     = "Отчеты за период %s - %s"
	msgReportFailed      = "Произошла ошибка при формировании отчета."
	msgUnknownReport     = "Неизвестный тип отчета."
	msgGenericError      = "❌ Произошла ошибка при обработке запроса. Пожалуйста, попробуйте позже."
	msgHelpHeader        = "Доступные команды:\n/start - Начать работу с ботом\n/cancel - Отменить текущее действие"
	msgHelpRent          = LabelRent + " - Посмотреть доступный инвентарь и оформить аренду"
	msgHelpHelp          = LabelHelp + " - Показать это сообщение"
	msgHelpReports       = LabelReports + " - Посмотреть отчеты по работе пункта проката"
	msgHelpAddInventory  = LabelAddInventory + " - Добавить новую позицию"
	labelReportFinance   = "💰 Финансовый отчет"
	labelReportInventory = "📦 Отчет по инвентарю"
	labelReportPopular   = "🏆 Популярные позиции"
	labelReportExport    = "📥 Выгрузить в Excel"
)
