package prompt

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"ainstein-ai-api/internal/domain/entity"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// CatalogID 内置模板标识，同时作为系统模板的别名
type CatalogID string

const (
	CatalogBlogArticle        CatalogID = "blog-article"
	CatalogMetaDescription    CatalogID = "meta-description"
	CatalogH1Title            CatalogID = "h1-title"
	CatalogProductDescription CatalogID = "product-description"
	CatalogMetaTitle          CatalogID = "meta-title"
)

// CatalogEntry 内置模板描述
type CatalogEntry struct {
	ID          CatalogID
	Name        string
	Description string
	Category    entity.PromptCategory
	file        string
}

var catalog = map[CatalogID]CatalogEntry{
	CatalogBlogArticle: {
		ID: CatalogBlogArticle, Name: "Blog Article", Category: entity.PromptCategoryBlog,
		Description: "Long-form SEO blog article with H2 sections", file: "templates/blog_article.txt",
	},
	CatalogMetaDescription: {
		ID: CatalogMetaDescription, Name: "Meta Description", Category: entity.PromptCategorySEO,
		Description: "Two meta descriptions under 155 characters", file: "templates/meta_description.txt",
	},
	CatalogH1Title: {
		ID: CatalogH1Title, Name: "H1 Title", Category: entity.PromptCategorySEO,
		Description: "Alternative H1 headings for a landing page", file: "templates/h1_title.txt",
	},
	CatalogProductDescription: {
		ID: CatalogProductDescription, Name: "Product Description", Category: entity.PromptCategoryEcommerce,
		Description: "Ecommerce product copy with benefits and CTA", file: "templates/product_description.txt",
	},
	CatalogMetaTitle: {
		ID: CatalogMetaTitle, Name: "Meta Title", Category: entity.PromptCategorySEO,
		Description: "Three meta titles under 60 characters", file: "templates/meta_title.txt",
	},
}

// CatalogIDs 按字典序返回全部内置模板标识
func CatalogIDs() []CatalogID {
	ids := make([]CatalogID, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CatalogBody 读取内置模板正文
func CatalogBody(id CatalogID) (string, error) {
	entry, ok := catalog[id]
	if !ok {
		return "", fmt.Errorf("unknown catalog prompt: %s", id)
	}
	b, err := templatesFS.ReadFile(entry.file)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// CatalogTemplate 将内置模板构造成系统模板实体（未分配 ID）
func CatalogTemplate(id CatalogID) (*entity.PromptTemplate, error) {
	body, err := CatalogBody(id)
	if err != nil {
		return nil, err
	}
	entry := catalog[id]
	alias := string(entry.ID)
	return &entity.PromptTemplate{
		Name:        entry.Name,
		Alias:       &alias,
		Description: entry.Description,
		Body:        body,
		Variables:   DetectVariables(body),
		Category:    entry.Category,
		IsActive:    true,
		IsSystem:    true,
	}, nil
}
