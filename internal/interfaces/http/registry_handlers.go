package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lucabarbieri/gestionale/internal/models"
	"github.com/lucabarbieri/gestionale/internal/repository"
	"github.com/lucabarbieri/gestionale/pkg/utils"
)

// RegistryHandlers serves the issuer, payer and revenue account registries.
type RegistryHandlers struct {
	issuers  *repository.IssuerRepository
	payers   *repository.PayerRepository
	accounts *repository.RevenueAccountRepository
}

// NewRegistryHandlers creates a new RegistryHandlers instance
func NewRegistryHandlers(
	issuers *repository.IssuerRepository,
	payers *repository.PayerRepository,
	accounts *repository.RevenueAccountRepository,
) *RegistryHandlers {
	return &RegistryHandlers{issuers: issuers, payers: payers, accounts: accounts}
}

// ListIssuers handles GET /api/issuers
func (h *RegistryHandlers) ListIssuers(c *gin.Context) {
	issuers, err := h.issuers.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: issuers})
}

// CreateIssuer handles POST /api/issuers
func (h *RegistryHandlers) CreateIssuer(c *gin.Context) {
	var issuer models.Issuer
	if err := c.ShouldBindJSON(&issuer); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	issuer.LegalName = utils.SanitizeString(issuer.LegalName)
	issuer.Address = utils.SanitizeString(issuer.Address)
	if err := validateIssuer(&issuer); err != nil {
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.issuers.Create(&issuer); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: issuer})
}

// ListPayers handles GET /api/payers
func (h *RegistryHandlers) ListPayers(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	payers, err := h.payers.List(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: payers})
}

// CreatePayer handles POST /api/payers
func (h *RegistryHandlers) CreatePayer(c *gin.Context) {
	var payer models.Payer
	if err := c.ShouldBindJSON(&payer); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	payer.LegalName = utils.SanitizeString(payer.LegalName)
	payer.GivenName = utils.SanitizeString(payer.GivenName)
	payer.Address = utils.SanitizeString(payer.Address)
	if err := validatePayer(&payer); err != nil {
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
		return
	}
	applyPayerDefaults(&payer)
	if err := h.payers.Create(&payer); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: payer})
}

// UpdatePayer handles PUT /api/payers/:id
func (h *RegistryHandlers) UpdatePayer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid payer id"})
		return
	}

	var payer models.Payer
	if err := c.ShouldBindJSON(&payer); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	payer.ID = id

	if err := validatePayer(&payer); err != nil {
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.payers.Update(&payer); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: payer})
}

// ListRevenueAccounts handles GET /api/revenue-accounts
func (h *RegistryHandlers) ListRevenueAccounts(c *gin.Context) {
	accounts, err := h.accounts.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: accounts})
}

// CreateRevenueAccount handles POST /api/revenue-accounts
func (h *RegistryHandlers) CreateRevenueAccount(c *gin.Context) {
	var account models.RevenueAccount
	if err := c.ShouldBindJSON(&account); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	account.Code = utils.SanitizeString(account.Code)
	account.Description = utils.SanitizeString(account.Description)
	if account.Code == "" || account.Description == "" {
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: "code and description are required"})
		return
	}
	if err := h.accounts.Create(&account); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: account})
}

func validateIssuer(issuer *models.Issuer) error {
	if err := utils.ValidateVATNumber(issuer.VATNumber); err != nil {
		return err
	}
	if issuer.FiscalCode != "" {
		if err := utils.ValidateFiscalCode(issuer.FiscalCode); err != nil {
			return err
		}
	}
	if issuer.IBAN != "" {
		if err := utils.ValidateIBAN(issuer.IBAN); err != nil {
			return err
		}
	}
	if issuer.CertifiedEmail != "" {
		return utils.ValidateEmail(issuer.CertifiedEmail)
	}
	return nil
}

func validatePayer(payer *models.Payer) error {
	if payer.VATNumber != "" {
		if err := utils.ValidateVATNumber(payer.VATNumber); err != nil {
			return err
		}
	}
	if payer.FiscalCode != "" {
		if err := utils.ValidateFiscalCode(payer.FiscalCode); err != nil {
			return err
		}
	}
	if payer.MandateIBAN != "" {
		if err := utils.ValidateIBAN(payer.MandateIBAN); err != nil {
			return err
		}
	}
	if payer.CertifiedEmail != "" {
		return utils.ValidateEmail(payer.CertifiedEmail)
	}
	return nil
}

func applyPayerDefaults(payer *models.Payer) {
	if payer.RoutingCode == "" {
		payer.RoutingCode = models.NullRoutingCode
	}
	if payer.Country == "" {
		payer.Country = "IT"
	}
	if payer.CollectionMethod == "" {
		payer.CollectionMethod = models.CollectionMethodTransfer
	}
}
