package game

// Trade is the handler driving a player-to-player trade session.
type Trade interface {
	Cancel(c *Character)
}

// ShopExchange is the handler driving a buy/sell session with an NPC shop.
type ShopExchange interface {
	Cancel()
}

// transactionState is a sum type: each variant owns the handler matching its
// tag, so a trade handler can never be read while a shop exchange runs.
type transactionState interface {
	cancel(c *Character)
}

type tradeTransaction struct {
	handler Trade
}

func (t tradeTransaction) cancel(c *Character) { t.handler.Cancel(c) }

type shopTransaction struct {
	handler ShopExchange
}

func (t shopTransaction) cancel(*Character) { t.handler.Cancel() }

// StartTrade installs a trade session, cancelling whatever exchange was
// active before. Exclusivity is guaranteed here; callers never check first.
func (c *Character) StartTrade(handler Trade) {
	c.CancelTransaction()
	c.transaction = tradeTransaction{handler: handler}
}

// StartShopExchange installs a shop session, cancelling any active exchange.
func (c *Character) StartShopExchange(handler ShopExchange) {
	c.CancelTransaction()
	c.transaction = shopTransaction{handler: handler}
}

// Trading returns the active trade handler, if a trade is running.
func (c *Character) Trading() (Trade, bool) {
	if t, ok := c.transaction.(tradeTransaction); ok {
		return t.handler, true
	}
	return nil, false
}

// ShopExchanging returns the active shop handler, if a shop session runs.
func (c *Character) ShopExchanging() (ShopExchange, bool) {
	if t, ok := c.transaction.(shopTransaction); ok {
		return t.handler, true
	}
	return nil, false
}

// CancelTransaction cancels the active exchange, invoking its handler's
// cancel callback exactly once. A no-op when nothing is active. The state is
// cleared before the callback runs so a re-entrant cancel does nothing.
func (c *Character) CancelTransaction() {
	t := c.transaction
	if t == nil {
		return
	}
	c.transaction = nil
	t.cancel(c)
}

// EndTransaction clears the active exchange without invoking its cancel
// callback. Used after successful completion to avoid a double notification.
func (c *Character) EndTransaction() {
	c.transaction = nil
}
