package lookup

// Bet is the result of a BetLookup query.
type Bet struct {
	ID    string    `json:"id"`
	IID   string    `json:"iid"`
	Type  string    `json:"type"`
	Scope string    `json:"scope"`
	Game  Game      `json:"game"`
	Bet   CasinoBet `json:"bet"`
}

// Game identifies the game a bet was placed on.
type Game struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CasinoBet is the casino-specific part of a looked up bet.
type CasinoBet struct {
	ID               string  `json:"id"`
	Active           bool    `json:"active"`
	PayoutMultiplier float64 `json:"payoutMultiplier"`
	Amount           float64 `json:"amount"`
	Payout           float64 `json:"payout"`
	UpdatedAt        string  `json:"updatedAt"`
	Currency         string  `json:"currency"`
	Game             string  `json:"game"`
	User             User    `json:"user"`
}

// User is the bet owner.
type User struct {
	Name string `json:"name"`
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type betLookupResponse struct {
	Data *struct {
		Bet *Bet `json:"bet"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

const betLookupQuery = `query BetLookup($betId: String) {
  bet(betId: $betId) {
    id
    iid
    type
    scope
    game {
      name
      slug
    }
    bet {
      ... on CasinoBet {
        id
        active
        payoutMultiplier
        amount
        payout
        updatedAt
        currency
        game
        user {
          name
        }
      }
    }
  }
}`
