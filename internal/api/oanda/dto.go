package oanda

type candlesResponse struct {
	Instrument  string      `json:"instrument"`
	Granularity string      `json:"granularity"`
	Candles     []candleDTO `json:"candles"`
}

type candleDTO struct {
	Time     string   `json:"time"`
	Complete bool     `json:"complete"`
	Volume   int64    `json:"volume"`
	Mid      *ohlcDTO `json:"mid,omitempty"`
	Bid      *ohlcDTO `json:"bid,omitempty"`
	Ask      *ohlcDTO `json:"ask,omitempty"`
}

type ohlcDTO struct {
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
}

type priceDTO struct {
	Price string `json:"price"`
}

type clientExtensionsDTO struct {
	ID      string `json:"id,omitempty"`
	Tag     string `json:"tag,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type marketOrderDTO struct {
	Instrument       string               `json:"instrument"`
	Units            string               `json:"units"`
	Type             string               `json:"type"`
	PositionFill     string               `json:"positionFill"`
	StopLossOnFill   *priceDTO            `json:"stopLossOnFill,omitempty"`
	TakeProfitOnFill *priceDTO            `json:"takeProfitOnFill,omitempty"`
	ClientExtensions *clientExtensionsDTO `json:"clientExtensions,omitempty"`
}

type orderRequest struct {
	Order marketOrderDTO `json:"order"`
}

type transactionDTO struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Price       string `json:"price,omitempty"`
	Reason      string `json:"reason,omitempty"`
	TradeOpened *struct {
		TradeID string `json:"tradeID"`
	} `json:"tradeOpened,omitempty"`
}

type orderResponse struct {
	OrderCreateTransaction *transactionDTO `json:"orderCreateTransaction"`
	OrderFillTransaction   *transactionDTO `json:"orderFillTransaction"`
	OrderCancelTransaction *transactionDTO `json:"orderCancelTransaction"`
	ErrorMessage           string          `json:"errorMessage"`
}

type instrumentDTO struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	DisplayPrecision int    `json:"displayPrecision"`
	PipLocation      int    `json:"pipLocation"`
}

type instrumentsResponse struct {
	Instruments []instrumentDTO `json:"instruments"`
}
