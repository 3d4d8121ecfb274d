package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"betnotes/internal/models"
)

type TypeResponse struct {
	ID            int            `json:"id"`
	ParentID      *int           `json:"parentId"`
	Name          string         `json:"name"`
	Code          string         `json:"code"`
	DeveloperName string         `json:"developerName"`
	Group         *string        `json:"group"`
	StatGroup     *string        `json:"statGroup"`
	ModelType     string         `json:"modelType"`
	Children      []TypeResponse `json:"children,omitempty"`
}

func (s *Server) taxonomyStatus(c *gin.Context) {
	resp := gin.H{
		"status": "ok",
		"cache":  s.Cache.Status(),
	}
	if byModel, err := s.Store.CountByModelType(); err == nil {
		resp["byModelType"] = byModel
	}
	if run, err := s.Store.LastRun(); err == nil && run != nil {
		resp["lastRun"] = run
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getType(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	node, ok := s.Cache.Lookup(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, toTypeResponse(node))
}

func (s *Server) listTypes(c *gin.Context) {
	nodes := s.Cache.All()
	if modelType := c.Query("modelType"); modelType != "" {
		filtered := nodes[:0]
		for _, node := range nodes {
			if node.ModelType == modelType {
				filtered = append(filtered, node)
			}
		}
		nodes = filtered
	}
	c.JSON(http.StatusOK, buildTypeTree(nodes))
}

func toTypeResponse(node models.TaxonomyNode) TypeResponse {
	return TypeResponse{
		ID:            node.ID,
		ParentID:      node.ParentID,
		Name:          node.Name,
		Code:          node.Code,
		DeveloperName: node.DeveloperName,
		Group:         node.Group,
		StatGroup:     node.StatGroup,
		ModelType:     node.ModelType,
	}
}

func buildTypeTree(nodes []models.TaxonomyNode) []TypeResponse {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	index := map[int]*TypeResponse{}
	childrenMap := map[int][]*TypeResponse{}
	roots := []*TypeResponse{}

	for _, node := range nodes {
		n := new(TypeResponse)
		*n = toTypeResponse(node)
		index[node.ID] = n
		if node.ParentID != nil {
			childrenMap[*node.ParentID] = append(childrenMap[*node.ParentID], n)
		} else {
			roots = append(roots, n)
		}
	}

	// A filtered listing can leave children whose parent fell outside the
	// filter; surface those as roots rather than dropping them.
	for parentID, kids := range childrenMap {
		if _, ok := index[parentID]; !ok {
			roots = append(roots, kids...)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].ID < roots[j].ID })

	var attach func(*TypeResponse)
	attach = func(n *TypeResponse) {
		if kids, ok := childrenMap[n.ID]; ok {
			n.Children = make([]TypeResponse, 0, len(kids))
			for _, child := range kids {
				attach(child)
				n.Children = append(n.Children, *child)
			}
		}
	}

	out := make([]TypeResponse, 0, len(roots))
	for _, root := range roots {
		attach(root)
		out = append(out, *root)
	}
	return out
}
