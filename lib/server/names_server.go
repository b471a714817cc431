package server

import (
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-set/v2"
)

func (s *server) initNames(r *gin.Engine) {
	r.GET("/api/names", get(s.namesList))
}

// namesList returns every branch and tag name seen in the stored reports, to pick a location from.
func (s *server) namesList() (any, error) {
	branches := set.New[string](10)
	tags := set.New[string](10)

	for _, cs := range s.changeSets.List() {
		branches.InsertSet(cs.BranchNames)
		tags.InsertSet(cs.TagNames)
	}

	return gin.H{
		"branches": sorted(branches),
		"tags":     sorted(tags),
	}, nil
}

func sorted(s *set.Set[string]) []string {
	result := s.Slice()
	sort.Strings(result)
	return result
}
