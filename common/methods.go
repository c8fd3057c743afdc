package common

import (
	"io/ioutil"
	"os"
)

func GetContent(path string) (string, error) { //读取文件内容
	if yes, _ := PathExists(path); !yes {
		return "", nil
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	bt, err := ioutil.ReadAll(file)
	if err != nil {
		return "", err
	}
	return string(bt), nil
}

func PathExists(path string) (bool, error) { //判断文件是否存在
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
