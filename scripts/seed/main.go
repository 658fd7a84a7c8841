package main

import (
	"fmt"
	"log"
	"time"

	"github.com/artvault/internal/config"
	"github.com/artvault/internal/db"
	"github.com/artvault/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 测试数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseSource()); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	// 创建测试用户
	createTestUsers()

	// 创建测试标签
	createTestTags()

	// 创建关于页
	createAboutPage()

	// 创建测试画师与作品
	createTestArtists()
	createTestArtworks()

	// 创建作品集
	createTestSeries()

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
	fmt.Println("画师: 3位，作品: 12件")
}

// 创建测试用户
func createTestUsers() {
	// 检查是否已存在用户
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Username: "admin",
		Password: string(hashedPassword),
	}
	db.DB.Create(&admin)

	fmt.Println("✅ 测试用户创建完成")
}

// 创建测试标签
func createTestTags() {
	// 检查是否已存在标签
	var count int64
	db.DB.Model(&db.Tag{}).Count(&count)
	if count > 0 {
		fmt.Println("标签已存在，跳过创建")
		return
	}

	tags := []string{"原创", "同人", "厚涂", "像素风", "风景", "人物", "黑白"}
	for idx, tagName := range tags {
		tag := db.Tag{Name: tagName, SortOrder: idx}
		db.DB.Create(&tag)
	}

	fmt.Println("✅ 测试标签创建完成")
}

// 创建关于页
func createAboutPage() {
	var count int64
	db.DB.Model(&db.Page{}).Where("slug = ?", "about").Count(&count)
	if count > 0 {
		fmt.Println("关于页已存在，跳过创建")
		return
	}

	pageSvc := service.NewPageService(db.DB)
	content := "## 关于本站\n\n- 收录我喜欢的画师与作品\n- 所有作品版权归原作者所有\n- 仅作个人收藏与学习交流\n\n### 收录说明\n1. 按画师归档，保留来源链接\n2. 动图以 APNG 预览配视频原件\n3. 作品集按发布时间排列"
	if _, err := pageSvc.SaveAboutPage(content); err != nil {
		log.Printf("创建关于页失败: %v", err)
		return
	}

	fmt.Println("✅ 关于页创建完成")
}

// 创建测试画师
func createTestArtists() {
	var count int64
	db.DB.Model(&db.Artist{}).Count(&count)
	if count > 0 {
		fmt.Println("画师已存在，跳过创建")
		return
	}

	artists := []db.Artist{
		{
			Name:      "星野綴",
			Username:  "hoshino",
			Bio:       "画夜景和星空的插画师，偶尔画像素动图。",
			AvatarURL: "/static/media/hoshino/avatar.png",
		},
		{
			Name:      "雨宮こはく",
			Username:  "amamiya",
			Bio:       "厚涂人物为主，**委托暂停中**。",
			AvatarURL: "/static/media/amamiya/avatar.png",
		},
		{
			Name:      "辻野白",
			Username:  "tsujino",
			Bio:       "黑白漫画向，连载同人短篇。",
			AvatarURL: "/static/media/tsujino/avatar.png",
		},
	}

	for i := range artists {
		if err := db.DB.Create(&artists[i]).Error; err != nil {
			log.Printf("创建画师失败: %v", err)
			continue
		}
	}

	// 每位画师补一条 pixiv 外链
	links := []db.ArtistLink{
		{ArtistID: artists[0].ID, Platform: "pixiv", Label: "Pixiv", URL: "https://www.pixiv.net/users/11111", Icon: "pixiv", Sort: 0, Visible: true},
		{ArtistID: artists[0].ID, Platform: "x", Label: "X", URL: "https://x.com/hoshino_tsuzuri", Icon: "x", Sort: 1, Visible: true},
		{ArtistID: artists[1].ID, Platform: "pixiv", Label: "Pixiv", URL: "https://www.pixiv.net/users/22222", Icon: "pixiv", Sort: 0, Visible: true},
		{ArtistID: artists[2].ID, Platform: "pixiv", Label: "Pixiv", URL: "https://www.pixiv.net/users/33333", Icon: "pixiv", Sort: 0, Visible: true},
	}
	for i := range links {
		db.DB.Create(&links[i])
	}

	fmt.Println("✅ 测试画师创建完成")
}

// 单件作品的种子描述
type artworkSeed struct {
	title       string
	description string
	artist      string
	tags        []string
	sourceURL   string
	images      []service.ImageInput
}

// 创建测试作品
func createTestArtworks() {
	// 清理旧作品及关联
	db.DB.Exec("DELETE FROM artwork_tags")
	db.DB.Exec("DELETE FROM images")
	db.DB.Exec("DELETE FROM artworks")

	// 获取画师
	artistIDs := map[string]uint{}
	var allArtists []db.Artist
	db.DB.Find(&allArtists)
	for _, artist := range allArtists {
		artistIDs[artist.Username] = artist.ID
	}

	// 获取所有标签
	var allTags []db.Tag
	db.DB.Find(&allTags)
	tagIDs := map[string]uint{}
	for _, tag := range allTags {
		tagIDs[tag.Name] = tag.ID
	}

	seeds := []artworkSeed{
		{
			title:       "夜航",
			description: "深夜的环状线，车窗外只有信号灯。",
			artist:      "hoshino",
			tags:        []string{"原创", "风景"},
			sourceURL:   "https://www.pixiv.net/artworks/100000001",
			images: []service.ImageInput{
				{FileName: "p0.png", Path: "hoshino/yakou/p0.png", Width: 1600, Height: 900, FileSize: 2048_000},
				{FileName: "p1.png", Path: "hoshino/yakou/p1.png", Width: 1600, Height: 900, FileSize: 1980_000},
			},
		},
		{
			title:       "星屑循环",
			description: "像素动图，APNG 预览与 MP4 原件同名配对。",
			artist:      "hoshino",
			tags:        []string{"原创", "像素风"},
			sourceURL:   "https://www.pixiv.net/artworks/100000002",
			images: []service.ImageInput{
				{FileName: "loop.apng", Path: "hoshino/hoshikuzu/loop.apng", Width: 480, Height: 480, FileSize: 820_000},
				{FileName: "loop.mp4", Path: "hoshino/hoshikuzu/loop.mp4", Width: 0, Height: 0, FileSize: 3_400_000},
			},
		},
		{
			title:       "冬の展望台",
			description: "",
			artist:      "hoshino",
			tags:        []string{"原创", "风景"},
			sourceURL:   "https://www.pixiv.net/artworks/100000003",
			images: []service.ImageInput{
				{FileName: "p0.jpg", Path: "hoshino/tenboudai/p0.jpg", Width: 1200, Height: 1200, FileSize: 1_540_000},
			},
		},
		{
			title:       "航路图·一",
			description: "系列第一张。",
			artist:      "hoshino",
			tags:        []string{"原创"},
			sourceURL:   "https://www.pixiv.net/artworks/100000004",
			images: []service.ImageInput{
				{FileName: "p0.png", Path: "hoshino/kouro-01/p0.png", Width: 1920, Height: 1080, FileSize: 2_300_000},
			},
		},
		{
			title:       "航路图·二",
			description: "系列第二张。",
			artist:      "hoshino",
			tags:        []string{"原创"},
			sourceURL:   "https://www.pixiv.net/artworks/100000005",
			images: []service.ImageInput{
				{FileName: "p0.png", Path: "hoshino/kouro-02/p0.png", Width: 1920, Height: 1080, FileSize: 2_260_000},
			},
		},
		{
			title:       "琥珀色の少女",
			description: "厚涂练习，皮肤质感重画了三遍。",
			artist:      "amamiya",
			tags:        []string{"原创", "厚涂", "人物"},
			sourceURL:   "https://www.pixiv.net/artworks/200000001",
			images: []service.ImageInput{
				{FileName: "p0.jpg", Path: "amamiya/kohakuiro/p0.jpg", Width: 1080, Height: 1920, FileSize: 2_870_000},
			},
		},
		{
			title:       "雨上がり",
			description: "",
			artist:      "amamiya",
			tags:        []string{"原创", "厚涂"},
			sourceURL:   "https://www.pixiv.net/artworks/200000002",
			images: []service.ImageInput{
				{FileName: "p0.jpg", Path: "amamiya/ameagari/p0.jpg", Width: 1080, Height: 1620, FileSize: 2_410_000},
				{FileName: "p1.jpg", Path: "amamiya/ameagari/p1.jpg", Width: 1080, Height: 1620, FileSize: 2_380_000},
				{FileName: "p2.jpg", Path: "amamiya/ameagari/p2.jpg", Width: 1080, Height: 1620, FileSize: 2_350_000},
			},
		},
		{
			title:       "作画過程",
			description: "十五分钟速涂的过程录像。",
			artist:      "amamiya",
			tags:        []string{"厚涂", "人物"},
			sourceURL:   "https://x.com/amamiya_khk/status/1700000000000000001",
			images: []service.ImageInput{
				{FileName: "process.mp4", Path: "amamiya/sakuga/process.mp4", Width: 0, Height: 0, FileSize: 18_600_000},
			},
		},
		{
			title:       "白與黑·上",
			description: "同人短篇第一话。",
			artist:      "tsujino",
			tags:        []string{"同人", "黑白"},
			sourceURL:   "https://www.pixiv.net/artworks/300000001",
			images: []service.ImageInput{
				{FileName: "01.png", Path: "tsujino/shirotokuro-jou/01.png", Width: 1254, Height: 1771, FileSize: 980_000},
				{FileName: "02.png", Path: "tsujino/shirotokuro-jou/02.png", Width: 1254, Height: 1771, FileSize: 1_010_000},
				{FileName: "03.png", Path: "tsujino/shirotokuro-jou/03.png", Width: 1254, Height: 1771, FileSize: 940_000},
			},
		},
		{
			title:       "白與黑·下",
			description: "同人短篇第二话，完结。",
			artist:      "tsujino",
			tags:        []string{"同人", "黑白"},
			sourceURL:   "https://www.pixiv.net/artworks/300000002",
			images: []service.ImageInput{
				{FileName: "01.png", Path: "tsujino/shirotokuro-ge/01.png", Width: 1254, Height: 1771, FileSize: 960_000},
				{FileName: "02.png", Path: "tsujino/shirotokuro-ge/02.png", Width: 1254, Height: 1771, FileSize: 990_000},
			},
		},
		{
			title:       "扉絵",
			description: "",
			artist:      "tsujino",
			tags:        []string{"同人", "黑白", "人物"},
			sourceURL:   "https://www.pixiv.net/artworks/300000003",
			images: []service.ImageInput{
				{FileName: "cover.png", Path: "tsujino/tobirae/cover.png", Width: 1400, Height: 1400, FileSize: 1_120_000},
			},
		},
		{
			title:       "落書きまとめ",
			description: "三月的涂鸦合集。",
			artist:      "tsujino",
			tags:        []string{"原创", "黑白"},
			sourceURL:   "https://x.com/tsujino_haku/status/1700000000000000002",
			images: []service.ImageInput{
				{FileName: "p0.png", Path: "tsujino/rakugaki/p0.png", Width: 2048, Height: 1152, FileSize: 1_760_000},
				{FileName: "p1.png", Path: "tsujino/rakugaki/p1.png", Width: 1152, Height: 2048, FileSize: 1_690_000},
			},
		},
	}

	artworkSvc := service.NewArtworkService(db.DB)
	for idx, seed := range seeds {
		artistID, ok := artistIDs[seed.artist]
		if !ok {
			log.Printf("画师 %s 不存在，跳过作品 %s", seed.artist, seed.title)
			continue
		}

		var ids []uint
		for _, tagName := range seed.tags {
			if id, ok := tagIDs[tagName]; ok {
				ids = append(ids, id)
			}
		}

		sourceDate := time.Now().Add(-time.Duration(idx) * 36 * time.Hour)
		input := service.ArtworkInput{
			Title:       seed.title,
			Description: seed.description,
			ArtistID:    artistID,
			SourceURL:   seed.sourceURL,
			SourceDate:  &sourceDate,
			TagIDs:      ids,
			Images:      seed.images,
		}
		for i := range input.Images {
			input.Images[i].SortOrder = i
		}

		if _, err := artworkSvc.Create(input); err != nil {
			log.Printf("创建作品失败: %v", err)
		}
	}

	fmt.Println("✅ 测试作品创建完成")
}

// 创建作品集并归入作品
func createTestSeries() {
	var count int64
	db.DB.Model(&db.Series{}).Count(&count)
	if count > 0 {
		fmt.Println("作品集已存在，跳过创建")
		return
	}

	var artist db.Artist
	if err := db.DB.Where("username = ?", "hoshino").First(&artist).Error; err != nil {
		log.Printf("查找画师失败: %v", err)
		return
	}

	seriesSvc := service.NewSeriesService(db.DB)
	series, err := seriesSvc.Create(service.SeriesInput{
		Title:       "航路图",
		Description: "星野綴的夜间航线连作。",
		ArtistID:    artist.ID,
	})
	if err != nil {
		log.Printf("创建作品集失败: %v", err)
		return
	}

	var artworks []db.Artwork
	db.DB.Where("artist_id = ? AND title LIKE ?", artist.ID, "航路图%").Find(&artworks)
	for _, artwork := range artworks {
		if err := seriesSvc.AssignArtwork(series.ID, artwork.ID); err != nil {
			log.Printf("归入作品集失败: %v", err)
		}
	}

	fmt.Println("✅ 作品集创建完成")
}
