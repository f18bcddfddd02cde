package snapshot

import (
	"sort"

	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/finance"
)

func sortCategoriesByWeight(cts []finance.CategoryTotal) {
	sort.SliceStable(cts, func(i, j int) bool { return cts[i].Weight > cts[j].Weight })
}

func sortBalancesDescending(abs []finance.AccountBalance) {
	sort.SliceStable(abs, func(i, j int) bool { return abs[i].Balance > abs[j].Balance })
}
