package matcher

import (
	"fmt"

	"github.com/dtnitsch/qgc-crawler/models"
)

// DataDrivenFloor is the similarity a line must reach against the name for
// its identifier to count as the client's.
const DataDrivenFloor = 75

// DataDriven starts from CPF/CNPJ tokens and checks whether the text on the
// same line resembles the client. It recovers rows where extraction garbled
// the name but left the identifier intact.
type DataDriven struct{}

func (DataDriven) Kind() models.Strategy { return models.StrategyDataDriven }

func (DataDriven) Find(in Input) []models.MatchCandidate {
	k := len(in.NameWords)
	if k == 0 {
		return nil
	}
	name := join(in.NameWords)

	var out []models.MatchCandidate
	for _, id := range in.Corpus.identifiers {
		if id.Start < in.Scope.Start || id.End > in.Scope.End {
			continue
		}
		best := 0.0
		for w := k - 1; w <= k+1; w++ {
			if w < 1 || w > len(id.words) {
				continue
			}
			for i := 0; i+w <= len(id.words); i++ {
				window := join(id.words[i : i+w])
				if ratioBound(len(window), len(name)) < DataDrivenFloor {
					continue
				}
				if r := Ratio(window, name); r > best {
					best = r
				}
			}
		}
		if best < DataDrivenFloor {
			continue
		}
		c := in.Corpus.sourceCandidate(models.StrategyDataDriven, in.Target.Name, int(best), id.Start, id.End)
		c.Detail = fmt.Sprintf("%s %s", identifierLabel(id.Type), id.Digits)
		out = append(out, c)
	}
	return out
}

func identifierLabel(t models.IdentifierType) string {
	if t == models.IdentifierCNPJ {
		return "CNPJ"
	}
	return "CPF"
}
