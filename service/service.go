package service

import (
	"errors"
	"net/http"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/curatenet/datamarket/app"
	"github.com/curatenet/datamarket/state"
	"github.com/curatenet/datamarket/types"
	"github.com/facebookgo/clock"
	"github.com/gin-gonic/gin"
)

// Service is the HTTP boundary: one POST route per operation or view,
// JSON in, JSON out. Transactions go through the executor; views read the
// committed state directly.
type Service struct {
	engine     *gin.Engine
	logger     cmtlog.Logger
	app        *app.App
	indexer    *ActivityIndexer
	clock      clock.Clock
	listenAddr string
}

func NewService(listenAddr string, logger cmtlog.Logger, a *app.App, indexer *ActivityIndexer) *Service {
	return newService(listenAddr, logger, a, indexer, clock.New())
}

func newService(listenAddr string, logger cmtlog.Logger, a *app.App, indexer *ActivityIndexer, cl clock.Clock) *Service {
	r := gin.Default()
	s := &Service{
		engine:     r,
		logger:     logger.With("module", "service"),
		app:        a,
		indexer:    indexer,
		clock:      cl,
		listenAddr: listenAddr,
	}
	s.engine.POST("/sendTx", s.handleSendTx)
	s.engine.POST("/getHeader", s.handleGetHeader)
	s.engine.POST("/getAccount", s.handleGetAccount)
	s.engine.POST("/getAllDatasets", s.handleGetAllDatasets)
	s.engine.POST("/getDatasetById", s.handleGetDatasetById)
	s.engine.POST("/getPendingProposals", s.handleGetPendingProposals)
	s.engine.POST("/getPendingReviews", s.handleGetPendingReviews)
	s.engine.POST("/getReviewedProposals", s.handleGetReviewedProposals)
	s.engine.POST("/getApprovedProposals", s.handleGetApprovedProposals)
	s.engine.POST("/getRejectedProposals", s.handleGetRejectedProposals)
	s.engine.POST("/userVoteStatusByProposalId", s.handleVoteStatus)
	s.engine.POST("/getVerifierVote", s.handleVerifierVote)
	s.engine.POST("/userFavorites", s.handleUserFavorites)
	s.engine.POST("/getFavouriteDatasets", s.handleFavoriteDatasets)
	s.engine.POST("/getActivity", s.handleGetActivity)
	s.engine.POST("/getPurchases", s.handleGetPurchases)
	return s
}

func (s *Service) Start() error {
	return s.engine.Run(s.listenAddr)
}

// statusOf maps ledger error kinds onto HTTP status codes. Missing records
// get 404 regardless of kind.
func statusOf(err error) int {
	if errors.Is(err, state.ErrAccountNotFound) ||
		errors.Is(err, state.ErrDatasetNotFound) ||
		errors.Is(err, state.ErrProposalNotFound) {
		return http.StatusNotFound
	}
	switch state.KindOf(err) {
	case state.KindValidation:
		return http.StatusBadRequest
	case state.KindAuthorization:
		return http.StatusForbidden
	case state.KindState:
		return http.StatusConflict
	case state.KindFunds:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{
		"error": err.Error(),
		"kind":  state.KindOf(err).String(),
	})
}

func (s *Service) handleSendTx(c *gin.Context) {
	dat, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// admission gate: reject on a throwaway layer before entering the
	// single-writer commit path
	if err := s.app.CheckTx(c.Request.Context(), dat); err != nil {
		fail(c, err)
		return
	}
	res, err := s.app.DeliverTx(c.Request.Context(), dat)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Service) handleGetHeader(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.DB().Header())
}

type GetAccountReq struct {
	Index   uint64 `json:"index"`
	Address string `json:"address"`
}

type GetAccountResponse struct {
	Account *state.Account `json:"account"`
	Height  uint64         `json:"height"`
}

func (s *Service) handleGetAccount(c *gin.Context) {
	var requestData GetAccountReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var (
		acnt   *state.Account
		height uint64
		err    error
	)
	if requestData.Address != "" {
		acnt, height, err = s.app.DB().GetAccountByAddress(requestData.Address)
	} else {
		acnt, height, err = s.app.DB().GetAccountByIndex(requestData.Index)
	}
	if err != nil {
		fail(c, err)
		return
	}
	if acnt == nil {
		fail(c, state.ErrAccountNotFound)
		return
	}
	c.JSON(http.StatusOK, GetAccountResponse{Account: acnt, Height: height})
}

type DatasetsResponse struct {
	Datasets []*types.Dataset `json:"datasets"`
	Total    int              `json:"total"`
}

func (s *Service) handleGetAllDatasets(c *gin.Context) {
	list, err := s.app.DB().AllDatasets()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DatasetsResponse{Datasets: list, Total: len(list)})
}

type GetDatasetReq struct {
	Id uint64 `json:"id"`
}

func (s *Service) handleGetDatasetById(c *gin.Context) {
	var requestData GetDatasetReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ds, err := s.app.DB().GetDatasetById(requestData.Id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

type ProposalViewReq struct {
	Address string `json:"address"`
}

type ProposalsResponse struct {
	Proposals []*types.Proposal `json:"proposals"`
	Total     int               `json:"total"`
}

func (s *Service) proposalsView(c *gin.Context, list []*types.Proposal, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ProposalsResponse{Proposals: list, Total: len(list)})
}

func (s *Service) handleGetPendingProposals(c *gin.Context) {
	var requestData ProposalViewReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := s.app.DB().PendingProposals(requestData.Address, s.clock.Now().Unix())
	s.proposalsView(c, list, err)
}

func (s *Service) handleGetPendingReviews(c *gin.Context) {
	var requestData ProposalViewReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := s.app.DB().PendingReviews(requestData.Address, s.clock.Now().Unix())
	s.proposalsView(c, list, err)
}

func (s *Service) handleGetReviewedProposals(c *gin.Context) {
	var requestData ProposalViewReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := s.app.DB().ReviewedProposals(requestData.Address)
	s.proposalsView(c, list, err)
}

func (s *Service) handleGetApprovedProposals(c *gin.Context) {
	list, err := s.app.DB().ApprovedProposals()
	s.proposalsView(c, list, err)
}

func (s *Service) handleGetRejectedProposals(c *gin.Context) {
	list, err := s.app.DB().RejectedProposals()
	s.proposalsView(c, list, err)
}

type VoteStatusReq struct {
	Proposal uint64 `json:"proposal"`
	Address  string `json:"address"`
}

type VoteStatusResponse struct {
	Voted   bool `json:"voted"`
	Approve bool `json:"approve"`
}

func (s *Service) handleVoteStatus(c *gin.Context) {
	var requestData VoteStatusReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	voted, approve, err := s.app.DB().VoteStatus(requestData.Proposal, requestData.Address)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, VoteStatusResponse{Voted: voted, Approve: approve})
}

func (s *Service) handleVerifierVote(c *gin.Context) {
	var requestData VoteStatusReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	voted, approve, err := s.app.DB().VoteStatus(requestData.Proposal, requestData.Address)
	if err != nil {
		fail(c, err)
		return
	}
	if !voted {
		c.JSON(http.StatusNotFound, gin.H{"error": "no vote recorded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"approve": approve})
}

type FavoriteReq struct {
	Address string `json:"address"`
	Dataset uint64 `json:"dataset"`
}

func (s *Service) handleUserFavorites(c *gin.Context) {
	var requestData FavoriteReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	marked, err := s.app.DB().UserFavorites(requestData.Address, requestData.Dataset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": marked})
}

func (s *Service) handleFavoriteDatasets(c *gin.Context) {
	var requestData FavoriteReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := s.app.DB().FavoriteDatasets(requestData.Address)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DatasetsResponse{Datasets: list, Total: len(list)})
}

type GetActivityReq struct {
	Address  string `json:"address"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetActivityResponse struct {
	Activities []Activity `json:"activities"`
	Total      uint64     `json:"total"`
}

func (s *Service) handleGetActivity(c *gin.Context) {
	if s.indexer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "indexer disabled"})
		return
	}
	var requestData GetActivityReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, total, err := s.indexer.getActivities(requestData.Address, requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, GetActivityResponse{Activities: rows, Total: total})
}

type GetPurchasesReq struct {
	Dataset  uint64 `json:"dataset"`
	Buyer    string `json:"buyer"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetPurchasesResponse struct {
	Purchases []PurchaseReceipt `json:"purchases"`
	Total     uint64            `json:"total"`
}

func (s *Service) handleGetPurchases(c *gin.Context) {
	if s.indexer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "indexer disabled"})
		return
	}
	var requestData GetPurchasesReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, total, err := s.indexer.getPurchases(requestData.Dataset, requestData.Buyer, requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, GetPurchasesResponse{Purchases: rows, Total: total})
}
