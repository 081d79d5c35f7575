package models

// All lists every persisted model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Tag{},
		&Technology{},
		&Article{},
		&ArticleTag{},
		&Project{},
		&ProjectTechnology{},
		&Comment{},
		&SiteStat{},
	}
}
