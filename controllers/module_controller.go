package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/modswap/modswap-backend/config"
	"github.com/modswap/modswap-backend/models"
)

type ModuleInput struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
	University string `json:"university"`
	Year       *int   `json:"year"`
}

// GET /api/modules
func GetModules(c *gin.Context) {
	query := config.DB.Model(&models.Module{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ? OR department ILIKE ?", like, like, like)
	}
	if department := c.Query("department"); department != "" {
		query = query.Where("department = ?", department)
	}

	var modules []models.Module
	if err := query.Order("code").Find(&modules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch modules"})
		return
	}
	c.JSON(http.StatusOK, modules)
}

// GET /api/modules/:id
func GetModuleDetail(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module ID"})
		return
	}

	var module models.Module
	if err := config.DB.First(&module, "id = ?", moduleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}
	c.JSON(http.StatusOK, module)
}

// POST /api/admin/modules
func CreateModule(c *gin.Context) {
	var input ModuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Module code and name are required"})
		return
	}

	// === duplicate code check ===
	var count int64
	config.DB.Model(&models.Module{}).Where("LOWER(code) = LOWER(?)", input.Code).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Module code already exists"})
		return
	}

	module := models.Module{
		Code:       input.Code,
		Name:       input.Name,
		Department: input.Department,
		University: input.University,
		Year:       input.Year,
	}
	if err := config.DB.Create(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create module"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Module created",
		"module":  module,
	})
}

// PUT /api/admin/modules/:id
func UpdateModule(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module ID"})
		return
	}

	var module models.Module
	if err := config.DB.First(&module, "id = ?", moduleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}

	var input ModuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Module code and name are required"})
		return
	}

	// Code must stay unique across the catalog
	var count int64
	config.DB.Model(&models.Module{}).
		Where("LOWER(code) = LOWER(?) AND id <> ?", input.Code, moduleID).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Module code already exists"})
		return
	}

	module.Code = input.Code
	module.Name = input.Name
	module.Department = input.Department
	module.University = input.University
	module.Year = input.Year

	if err := config.DB.Save(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update module"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Module updated", "module": module})
}

// DELETE /api/admin/modules/:id
func DeleteModule(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module ID"})
		return
	}

	var module models.Module
	if err := config.DB.First(&module, "id = ?", moduleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}

	if err := config.DB.Delete(&module).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete module"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Module deleted"})
}
