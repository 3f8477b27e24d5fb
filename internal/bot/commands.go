package bot

// Command constants for Telegram bot commands.
const (
	CommandStart  = "/start"
	CommandHelp   = "/help"
	CommandOrder  = "/order"
	CommandOrders = "/orders"
	CommandStatus = "/status"
)
