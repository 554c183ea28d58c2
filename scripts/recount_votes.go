// 手动触发投票计数器重算脚本
//
// 问题和回答上的赞成/反对计数是从投票台账冗余出来的，正常路径下
// 与台账同事务更新。历史数据修复或直接改库之后可以用本脚本从
// 台账整体重算一遍。
//
// 用法: go run scripts/recount_votes.go

package main

import (
	"devoverflow_backend/internal/config"
	"devoverflow_backend/pkg/database"
	"devoverflow_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("开始从投票台账重算计数器...")

	statements := []string{
		`UPDATE questions SET upvote_count = (
			SELECT COUNT(*) FROM votes
			WHERE votes.item_type = 'question' AND votes.item_id = questions.id AND votes.value = 1)`,
		`UPDATE questions SET downvote_count = (
			SELECT COUNT(*) FROM votes
			WHERE votes.item_type = 'question' AND votes.item_id = questions.id AND votes.value = -1)`,
		`UPDATE answers SET upvote_count = (
			SELECT COUNT(*) FROM votes
			WHERE votes.item_type = 'answer' AND votes.item_id = answers.id AND votes.value = 1)`,
		`UPDATE answers SET downvote_count = (
			SELECT COUNT(*) FROM votes
			WHERE votes.item_type = 'answer' AND votes.item_id = answers.id AND votes.value = -1)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatalf("重算失败: %v", err)
		}
	}

	log.Println("完成！")
}
