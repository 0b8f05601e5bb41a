// Package main 启动应用程序
package main

import "github.com/u2giants/popdam2/pkg/cmd"

//	@title			PopDAM API
//	@version		1.0
//	@description	PopDAM 是面向制作部门的数字资产管理服务，提供资产浏览、过滤、缩略图状态跟踪与引用数据维护能力。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
