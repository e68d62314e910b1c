package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/repository"
)

// NodeHandler handles HTTP requests for road-graph nodes. The graph is
// read-only here; ingestion happens elsewhere.
type NodeHandler struct {
	graph repository.GraphRepository
}

// NewNodeHandler creates a new NodeHandler.
func NewNodeHandler(graph repository.GraphRepository) *NodeHandler {
	return &NodeHandler{graph: graph}
}

// NodeResponse is the HTTP response for node data.
type NodeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetAll handles GET /v1/nodes
func (h *NodeHandler) GetAll(c *gin.Context) {
	nodes, err := h.graph.ListNodes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]NodeResponse, 0, len(nodes))
	for _, node := range nodes {
		response = append(response, NodeResponse{ID: node.ID, Name: node.Name})
	}

	c.JSON(http.StatusOK, response)
}

// GetNode handles GET /v1/nodes/:id
func (h *NodeHandler) GetNode(c *gin.Context) {
	node, err := h.graph.GetNode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NodeResponse{ID: node.ID, Name: node.Name})
}
