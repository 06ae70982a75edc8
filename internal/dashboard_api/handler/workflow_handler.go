package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/collections-workflow/internal/domain/workflow"
)

// ListStatuses returns the workflow enumeration with each status's next states
func ListStatuses(c *gin.Context) {
	all := workflow.All()
	out := make([]StatusResponse, 0, len(all))
	for _, s := range all {
		out = append(out, describeStatus(s))
	}
	RespondOK(c, out)
}

// NextStatuses returns the statuses reachable from one status
func NextStatuses(c *gin.Context) {
	s, err := workflow.ParseStatus(c.Param("status"))
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	RespondOK(c, describeStatus(s))
}

// ListGroups returns the dashboard filter groups with their member statuses
func ListGroups(c *gin.Context) {
	groups := []workflow.Group{workflow.GroupAll, workflow.GroupLegal, workflow.GroupMoving, workflow.GroupStuck}
	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupResponse{Group: string(g), Statuses: statusStrings(g.Members())})
	}
	RespondOK(c, out)
}

func describeStatus(s workflow.Status) StatusResponse {
	return StatusResponse{
		Status:   string(s),
		Label:    s.Label(),
		Next:     statusStrings(workflow.NextStates(s)),
		Terminal: s.IsTerminal(),
	}
}
