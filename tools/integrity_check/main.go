package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"match-system/internal/integrity"

	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		Charset  string `yaml:"charset"`
	} `yaml:"database"`
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	repair := flag.Bool("repair", false, "执行自动修复后重新扫描")
	flag.Parse()

	config := loadConfig(*configPath)

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		config.Database.Username,
		config.Database.Password,
		config.Database.Host,
		config.Database.Port,
		config.Database.Database,
		config.Database.Charset,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         glog.Default.LogMode(glog.Silent),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	fmt.Println("数据库连接成功")
	fmt.Printf("数据库: %s\n\n", config.Database.Database)

	caps := integrity.DetectCapabilities(db)

	if *repair {
		repairer := integrity.NewRepairer(db, caps)
		fixReport, err := repairer.Repair()
		if err != nil {
			log.Fatalf("修复失败: %v", err)
		}
		fmt.Println("=== 修复结果 ===")
		fmt.Printf("清除的无效省份引用: %d\n", fixReport.StatesCleared)
		fmt.Printf("清除的无效城市引用: %d\n", fixReport.CitiesCleared)
		fmt.Printf("交换的年龄区间: %d\n", fixReport.BoundsSwapped)
		fmt.Printf("补建的偏好记录: %d\n\n", fixReport.PreferencesCreated)
		printReport(fixReport.Residual)
		return
	}

	scanner := integrity.NewScanner(db, caps)
	printReport(scanner.Scan())
}

// printReport 打印扫描报告到标准输出
func printReport(report *integrity.Report) {
	fmt.Println("=== 数据完整性扫描报告 ===")
	if report.IsClean() {
		fmt.Println("未发现问题")
	} else {
		fmt.Printf("问题总数: %d\n", report.Summary.Total)
		fmt.Printf("受影响用户: %d\n", report.Summary.AffectedUsers)
		fmt.Println("\n按严重级别:")
		for severity, count := range report.Summary.BySeverity {
			fmt.Printf("  %-8s %d\n", severity, count)
		}
		fmt.Println("\n按问题类型:")
		for issueType, count := range report.Summary.ByType {
			fmt.Printf("  %-32s %d\n", issueType, count)
		}
		fmt.Println("\n明细:")
		for _, issue := range report.Issues {
			fmt.Printf("  [%s] %s user_id=%d %s\n", issue.Severity, issue.Type, issue.UserID, issue.Message)
		}
	}
	if len(report.Summary.SkippedChecks) > 0 {
		fmt.Println("\n跳过的检查:")
		for _, name := range report.Summary.SkippedChecks {
			fmt.Printf("  %s\n", name)
		}
	}
}

func loadConfig(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}
	return &config
}
