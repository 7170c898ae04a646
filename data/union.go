package data

import "sort"

// Union concatenates document sets.
type Union struct {
	Sets []DocumentSet
	cdf  []int
}

func NewUnion(sets ...DocumentSet) *Union {
	u := &Union{cdf: []int{0}}
	for _, set := range sets {
		u.Append(set)
	}
	return u
}

func (u *Union) Append(set DocumentSet) {
	u.Sets = append(u.Sets, set)
	u.cdf = append(u.cdf, u.cdf[len(u.cdf)-1]+set.Len())
}

func (u *Union) Len() int {
	return u.cdf[len(u.cdf)-1]
}

// find returns the set which contains the i-th document and the index within it.
func (u *Union) find(i int) (DocumentSet, int) {
	s := sort.Search(len(u.Sets), func(s int) bool { return i < u.cdf[s+1] })
	return u.Sets[s], i - u.cdf[s]
}

func (u *Union) Record(i int) Record {
	set, j := u.find(i)
	return set.Record(j)
}

func (u *Union) At(i int) (Example, error) {
	set, j := u.find(i)
	return set.At(j)
}
