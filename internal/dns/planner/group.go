package planner

import "nathanbeddoewebdev/mailprov/internal/dns/domain"

// Group arranges intents by domain in order of first appearance. The zone ID
// of each group is taken from the first intent of that domain.
func Group(intents []domain.RecordIntent) domain.PlanBatch {
	var batch domain.PlanBatch
	index := make(map[string]int)

	for _, in := range intents {
		i, ok := index[in.Domain]
		if !ok {
			i = len(batch.Groups)
			index[in.Domain] = i
			batch.Groups = append(batch.Groups, domain.DomainGroup{Domain: in.Domain, ZoneID: in.ZoneID})
		}
		batch.Groups[i].Intents = append(batch.Groups[i].Intents, in)
	}
	return batch
}
