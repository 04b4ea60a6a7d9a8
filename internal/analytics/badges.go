package analytics

type BadgeID string

const (
	BadgeCenturion   BadgeID = "centurion"
	BadgeSurvivor    BadgeID = "survivor"
	BadgeTopGun      BadgeID = "top_gun"
	BadgeVeteran     BadgeID = "veteran"
	BadgeUnstoppable BadgeID = "unstoppable"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeCenturion:   {ID: BadgeCenturion, Name: "Centurion", Description: "100+ points in a single contest", Icon: "💯"},
	BadgeSurvivor:    {ID: BadgeSurvivor, Name: "Survivor", Description: "Still flying when the clock ran out", Icon: "🛡️"},
	BadgeTopGun:      {ID: BadgeTopGun, Name: "Top Gun", Description: "Won a contest against at least one other pilot", Icon: "✈️"},
	BadgeVeteran:     {ID: BadgeVeteran, Name: "Veteran", Description: "Flew 10+ contests", Icon: "🏅"},
	BadgeUnstoppable: {ID: BadgeUnstoppable, Name: "Unstoppable", Description: "3-contest win streak", Icon: "🔥"},
}

const (
	centurionScore   = 100
	veteranGames     = 10
	unstoppableWins  = 3
	timeUpReason     = "time_up"
	topGunMinPlayers = 2
)

// EvaluateGameBadges checks which badges a player earned in a single contest.
func EvaluateGameBadges(stats PlayerGameStats) []Badge {
	var earned []Badge

	if stats.Score >= centurionScore {
		earned = append(earned, AllBadges[BadgeCenturion])
	}

	// Only a contest that ran out of time has survivors.
	if stats.Alive && stats.Reason == timeUpReason {
		earned = append(earned, AllBadges[BadgeSurvivor])
	}

	if stats.Rank == 1 && stats.Contestants >= topGunMinPlayers && stats.Score > 0 {
		earned = append(earned, AllBadges[BadgeTopGun])
	}

	return earned
}

// EvaluateLifetimeBadges checks which badges a player earned across their career.
func EvaluateLifetimeBadges(stats PlayerLifetimeStats) []Badge {
	var earned []Badge

	if stats.WinStreak >= unstoppableWins {
		earned = append(earned, AllBadges[BadgeUnstoppable])
	}

	if stats.GamesPlayed >= veteranGames {
		earned = append(earned, AllBadges[BadgeVeteran])
	}

	return earned
}
