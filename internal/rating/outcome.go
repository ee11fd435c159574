package rating

import "github.com/mafclub/ledger/internal/mafia"

// Bucket names the win counter an outcome credits.
type Bucket string

const (
	BucketNone        Bucket = "NONE"
	BucketCivilianWin Bucket = "CIVILIAN_WIN"
	BucketMafiaWin    Bucket = "MAFIA_WIN"
)

// Outcome is the classification of one seat against its game's declared
// result.
type Outcome struct {
	Win    bool
	Bucket Bucket
}

// WinBonus is the fixed score credited for every won game, on top of the
// normalized extra points. Federation-specific bonus tables augment this
// elsewhere; they never replace it.
const WinBonus = 1.0

// Classify decides whether a seat won its game and which win counter to
// credit. A draw or a missing result is a win for nobody.
func Classify(role mafia.Role, result mafia.GameResult) Outcome {
	switch result {
	case mafia.ResultCiviliansWin:
		if role.Faction() == mafia.FactionCivilian {
			return Outcome{Win: true, Bucket: BucketCivilianWin}
		}
	case mafia.ResultMafiaWin:
		if role.Faction() == mafia.FactionMafia {
			return Outcome{Win: true, Bucket: BucketMafiaWin}
		}
	}
	return Outcome{Bucket: BucketNone}
}
